package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes for conflict-class failures. Only these are
// retried, and only inside Transaction — a plain Query is never retried.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// ConnectionError reports that the database engine could not be reached or a
// connection could not be acquired within the configured timeout. It is fatal
// to the calling operation and propagates unchanged through upper layers.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("db: connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError wraps a single failed query with the query name and measured
// duration so log lines and error chains carry enough context to find the
// offending statement.
type QueryError struct {
	Query    string
	Duration time.Duration
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("db: query %q failed after %s: %v", e.Query, e.Duration, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// TransactionError reports that a transaction kept hitting conflict-class
// errors until the retry budget was exhausted. Attempts counts every try,
// including the first.
type TransactionError struct {
	Attempts int
	Err      error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("db: transaction failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// IsConflict reports whether err is a conflict-class database error: a
// serialization failure or a deadlock. These indicate the transaction lost a
// race with a concurrent writer and is worth retrying; every other error
// class is not.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
}
