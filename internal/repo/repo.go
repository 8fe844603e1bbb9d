// Package repo contains all database access for the cruise guides API.
// Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
//
// Every repo runs its SQL through db.Executor, so the same implementation
// works against the pooled manager in production and against a transaction
// executor in tests, where rollback gives free per-test isolation.
package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

const codeUniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation, which the repos surface as domain.ErrConflict.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
