package dto

import (
	"time"

	"github.com/spec-kit/query-tracker/internal/domain"
)

// SubmitQueryRequest payload for a client submitting a query.
type SubmitQueryRequest struct {
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Heading      string `json:"heading"`
	Description  string `json:"description"`
}

// UpdateQueryRequest payload for a single-ticket update. Empty AssignedTo
// preserves the current assignment.
type UpdateQueryRequest struct {
	Status      string `json:"status"`
	Heading     string `json:"heading"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assigned_to"`
}

// BulkUpdateRequest payload applying one status/priority/assignment change
// across a selected set of tickets.
type BulkUpdateRequest struct {
	IDs        []int64 `json:"ids"`
	Status     string  `json:"status"`
	Priority   string  `json:"priority"`
	AssignedTo string  `json:"assigned_to"`
}

// BulkFailure reports one id that did not apply.
type BulkFailure struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkUpdateResponse reports batch outcome; the batch is never rolled back.
type BulkUpdateResponse struct {
	Updated []int64       `json:"updated"`
	Failed  []BulkFailure `json:"failed"`
}

// QueryResponse is the full ticket view.
type QueryResponse struct {
	ID            int64      `json:"id"`
	CreatedBy     string     `json:"created_by"`
	ContactEmail  string     `json:"contact_email"`
	ContactPhone  string     `json:"contact_phone"`
	Heading       string     `json:"heading"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	PriorityIndex int        `json:"priority_index"`
	AssignedTo    *string    `json:"assigned_to"`
	SupportGroup  *string    `json:"support_group"`
	CreatedAt     time.Time  `json:"created_at"`
	ClosedAt      *time.Time `json:"closed_at"`
	Overdue       bool       `json:"overdue"`
}

// NewQueryResponse maps a domain query at the given instant. PriorityIndex
// resolves malformed stored priorities to Medium's position without touching
// the stored value.
func NewQueryResponse(q *domain.Query, now time.Time) QueryResponse {
	return QueryResponse{
		ID:            q.ID,
		CreatedBy:     q.CreatedBy,
		ContactEmail:  q.ContactEmail,
		ContactPhone:  q.ContactPhone,
		Heading:       q.Heading,
		Description:   q.Description,
		Status:        string(q.Status),
		Priority:      string(q.Priority),
		PriorityIndex: domain.PriorityIndex(q.Priority),
		AssignedTo:    q.AssignedTo,
		SupportGroup:  q.SupportGroup,
		CreatedAt:     q.CreatedAt,
		ClosedAt:      q.ClosedAt,
		Overdue:       q.Overdue(now),
	}
}

// CommentRequest payload attaching a comment to a ticket.
type CommentRequest struct {
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
}

// CommentResponse is a stored comment.
type CommentResponse struct {
	ID          int64     `json:"id"`
	QueryID     int64     `json:"query_id"`
	CommentedBy string    `json:"commented_by"`
	Text        string    `json:"text"`
	Sentiment   string    `json:"sentiment"`
	CommentedAt time.Time `json:"commented_at"`
}
