package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateKey signals a unique-constraint violation on insert.
var ErrDuplicateKey = errors.New("duplicate key")

// uniqueViolation is the Postgres error code for unique-constraint failures.
const uniqueViolation = "23505"

func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateKey
	}
	return err
}
