package domain

import "time"

// Comment is a remark attached to a single query. The schema carries a
// sentiment tag per comment; no lifecycle rules attach to comments.
type Comment struct {
	ID          int64
	QueryID     int64
	CommentedBy string
	Text        string
	Sentiment   string
	CommentedAt time.Time
}
