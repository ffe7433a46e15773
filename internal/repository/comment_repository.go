package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/query-tracker/internal/domain"
)

// CommentRepository manages per-query comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByQuery(ctx context.Context, queryID int64) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository constructs repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO ticket_comments (query_id, commented_by, comment, sentiment, commented_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		comment.QueryID,
		comment.CommentedBy,
		comment.Text,
		comment.Sentiment,
		comment.CommentedAt,
	).Scan(&comment.ID)
}

func (r *commentRepository) ListByQuery(ctx context.Context, queryID int64) ([]domain.Comment, error) {
	const query = `
        SELECT id, query_id, commented_by, comment, sentiment, commented_at
        FROM ticket_comments WHERE query_id=$1 ORDER BY commented_at`

	rows, err := r.pool.Query(ctx, query, queryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.QueryID,
			&comment.CommentedBy,
			&comment.Text,
			&comment.Sentiment,
			&comment.CommentedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
