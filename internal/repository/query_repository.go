package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/query-tracker/internal/domain"
)

const queryColumns = `query_id, created_by, mail_id, mobile_number, query_heading,
       query_description, status, priority, assigned_to, support_group,
       query_created_time, query_closed_time`

// QueryRepository encapsulates query (ticket) persistence. Records are
// appended on create and updated in place otherwise; nothing deletes them.
type QueryRepository interface {
	Insert(ctx context.Context, q *domain.Query) error
	Update(ctx context.Context, q *domain.Query) error
	GetByID(ctx context.Context, id int64) (*domain.Query, error)
	GetAll(ctx context.Context) ([]domain.Query, error)
	ListByCreator(ctx context.Context, username string) ([]domain.Query, error)
	ListByAssignee(ctx context.Context, username string) ([]domain.Query, error)
}

type queryRepository struct {
	pool *pgxpool.Pool
}

// NewQueryRepository instantiates repository.
func NewQueryRepository(pool *pgxpool.Pool) QueryRepository {
	return &queryRepository{pool: pool}
}

func (r *queryRepository) Insert(ctx context.Context, q *domain.Query) error {
	const query = `
        INSERT INTO queries (created_by, mail_id, mobile_number, query_heading,
            query_description, status, priority, assigned_to, support_group,
            query_created_time, query_closed_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING query_id`
	return r.pool.QueryRow(ctx, query,
		q.CreatedBy,
		q.ContactEmail,
		q.ContactPhone,
		q.Heading,
		q.Description,
		q.Status,
		q.Priority,
		q.AssignedTo,
		q.SupportGroup,
		q.CreatedAt,
		q.ClosedAt,
	).Scan(&q.ID)
}

func (r *queryRepository) Update(ctx context.Context, q *domain.Query) error {
	const query = `
        UPDATE queries SET query_heading=$1, query_description=$2, status=$3,
            priority=$4, assigned_to=$5, support_group=$6, query_closed_time=$7
        WHERE query_id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		q.Heading,
		q.Description,
		q.Status,
		q.Priority,
		q.AssignedTo,
		q.SupportGroup,
		q.ClosedAt,
		q.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *queryRepository) GetByID(ctx context.Context, id int64) (*domain.Query, error) {
	q := `SELECT ` + queryColumns + ` FROM queries WHERE query_id=$1`

	var record domain.Query
	if err := r.pool.QueryRow(ctx, q, id).Scan(
		&record.ID,
		&record.CreatedBy,
		&record.ContactEmail,
		&record.ContactPhone,
		&record.Heading,
		&record.Description,
		&record.Status,
		&record.Priority,
		&record.AssignedTo,
		&record.SupportGroup,
		&record.CreatedAt,
		&record.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *queryRepository) GetAll(ctx context.Context) ([]domain.Query, error) {
	q := `SELECT ` + queryColumns + ` FROM queries ORDER BY query_created_time DESC`
	return r.fetchMany(ctx, q)
}

func (r *queryRepository) ListByCreator(ctx context.Context, username string) ([]domain.Query, error) {
	q := `SELECT ` + queryColumns + ` FROM queries WHERE created_by=$1 ORDER BY query_created_time DESC`
	return r.fetchMany(ctx, q, username)
}

func (r *queryRepository) ListByAssignee(ctx context.Context, username string) ([]domain.Query, error) {
	q := `SELECT ` + queryColumns + ` FROM queries WHERE assigned_to=$1 ORDER BY query_created_time DESC`
	return r.fetchMany(ctx, q, username)
}

func (r *queryRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Query, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQueries(rows)
}

func scanQueries(rows pgx.Rows) ([]domain.Query, error) {
	var result []domain.Query
	for rows.Next() {
		var record domain.Query
		if err := rows.Scan(
			&record.ID,
			&record.CreatedBy,
			&record.ContactEmail,
			&record.ContactPhone,
			&record.Heading,
			&record.Description,
			&record.Status,
			&record.Priority,
			&record.AssignedTo,
			&record.SupportGroup,
			&record.CreatedAt,
			&record.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
