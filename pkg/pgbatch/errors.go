package pgbatch

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrHealthcheckFailed        = errors.New("healthcheck failed, connection is not available")
	ErrNilDB                    = errors.New("database handle cannot be nil")
	ErrNilStatementFunc         = errors.New("statement func cannot be nil")
	ErrBatchFailed              = errors.New("batch execution failed")
)

// IsDuplicateKeyError detects PostgreSQL unique constraint violations
// (SQLSTATE 23505). Useful in fault handlers to drop duplicate items
// instead of retrying them.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolationError detects referential integrity violations
// (SQLSTATE 23503).
func IsForeignKeyViolationError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
