package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/query-tracker/internal/domain"
)

// UserRepository defines persistence access for the identity store.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, username string, role domain.Role) (*domain.User, error)
	UpdatePassword(ctx context.Context, username string, role domain.Role, hash string) (bool, error)
	ListUsernames(ctx context.Context, role domain.Role) ([]string, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, hashed_password, role)
        VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, user.Username, user.CredentialHash, user.Role)
	if err != nil {
		return mapDuplicate(err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, username string, role domain.Role) (*domain.User, error) {
	const query = `
        SELECT username, hashed_password, role
        FROM users WHERE username=$1 AND role=$2`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, username, role).Scan(
		&user.Username,
		&user.CredentialHash,
		&user.Role,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword overwrites the stored hash for the (username, role) pair and
// reports whether any row matched.
func (r *userRepository) UpdatePassword(ctx context.Context, username string, role domain.Role, hash string) (bool, error) {
	const query = `
        UPDATE users SET hashed_password=$1
        WHERE username=$2 AND role=$3`

	cmd, err := r.pool.Exec(ctx, query, hash, username, role)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *userRepository) ListUsernames(ctx context.Context, role domain.Role) ([]string, error) {
	const query = `SELECT username FROM users WHERE role=$1 ORDER BY username`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, err
		}
		result = append(result, username)
	}
	return result, rows.Err()
}
