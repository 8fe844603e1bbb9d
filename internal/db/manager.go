// Package db owns the database connection pool for the Cruise Guides backend.
// All query execution goes through the Manager — the pool itself is never
// handed to callers. The Manager adds three things on top of pgxpool: named
// queries with measured durations, transactions with automatic retry on
// conflict-class errors, and a periodic health check that logs instead of
// crashing.
package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

const (
	// txMaxRetries is how many times a conflicting transaction is retried
	// after its first attempt.
	txMaxRetries = 3
	// txBackoffBase is the first retry delay; each subsequent delay doubles.
	txBackoffBase = 100 * time.Millisecond

	healthCheckInterval = time.Minute
	healthCheckTimeout  = 5 * time.Second
)

// Config holds the connection pool settings. Zero values leave the pgxpool
// defaults in place.
type Config struct {
	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string
	// MaxConns is the upper bound on concurrent connections.
	MaxConns int32
	// MinConns is the floor of connections kept warm.
	MinConns int32
	// IdleTimeout recycles a connection idle for longer than this.
	IdleTimeout time.Duration
	// ConnectTimeout bounds how long to wait for a new connection.
	ConnectTimeout time.Duration
	// MaxLifetime recycles a connection after this age regardless of activity.
	MaxLifetime time.Duration
}

// PoolStats is a point-in-time snapshot of the pool for observability.
type PoolStats struct {
	Total  int32 `json:"total"`
	Active int32 `json:"active"`
	Idle   int32 `json:"idle"`
}

// Executor is the query surface shared by the pooled Manager and a
// transaction-scoped executor. Repos and the batch loader depend on this
// interface, so the same code runs against the pool, inside a transaction,
// or against a test double. The name argument identifies the query in logs
// and errors; it is not sent to the database.
type Executor interface {
	Exec(ctx context.Context, name, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, name, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, name, sql string, args ...any) pgx.Row
}

// Manager owns the bounded connection pool and is the only way the rest of
// the application reaches the database.
type Manager struct {
	pool *pgxpool.Pool
	log  *slog.Logger

	healthCancel context.CancelFunc
	healthDone   chan struct{}
}

// New builds the pool from cfg, verifies the engine is reachable within
// cfg.ConnectTimeout, and starts the periodic health check. An unreachable
// engine returns a *ConnectionError.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*Manager, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.IdleTimeout > 0 {
		poolCfg.MaxConnIdleTime = cfg.IdleTimeout
	}
	if cfg.MaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxLifetime
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	// pgxpool opens connections lazily; ping now so a misconfigured URL fails
	// at startup instead of on the first request.
	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, &ConnectionError{Err: err}
	}

	m := &Manager{pool: pool, log: log}
	m.startHealthCheck()
	return m, nil
}

// Close stops the health check and closes the pool, waiting for any
// in-flight health ping to finish.
func (m *Manager) Close() {
	if m.healthCancel != nil {
		m.healthCancel()
		<-m.healthDone
	}
	m.pool.Close()
}

// Exec runs a statement that returns no rows. Failures are wrapped in a
// *QueryError carrying the query name and measured duration.
func (m *Manager) Exec(ctx context.Context, name, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	tag, err := m.pool.Exec(ctx, sql, args...)
	elapsed := time.Since(start)
	m.log.Debug("exec", "query", name, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		return tag, &QueryError{Query: name, Duration: elapsed, Err: err}
	}
	return tag, nil
}

// Query runs a parameterized query. The caller owns the returned rows and
// must Close them. Failures are wrapped in a *QueryError; queries are never
// retried here — retry policy lives in Transaction alone.
func (m *Manager) Query(ctx context.Context, name, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := m.pool.Query(ctx, sql, args...)
	elapsed := time.Since(start)
	m.log.Debug("query", "query", name, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		return nil, &QueryError{Query: name, Duration: elapsed, Err: err}
	}
	return rows, nil
}

// QueryRow runs a query expected to return at most one row. The error is
// deferred to Scan, where it is wrapped in a *QueryError unless it is
// pgx.ErrNoRows — absence is an expected outcome the caller maps to
// domain.ErrNotFound, not a query failure.
func (m *Manager) QueryRow(ctx context.Context, name, sql string, args ...any) pgx.Row {
	return &timedRow{row: m.pool.QueryRow(ctx, sql, args...), name: name, start: time.Now()}
}

// Transaction runs fn inside a READ COMMITTED transaction. fn receives a
// transaction-scoped Executor so repo code is reusable inside and outside
// transactions. On a conflict-class error (serialization failure, deadlock)
// the whole transaction is retried up to 3 times with exponential backoff
// starting at 100ms; each retry is logged. Exhausting the budget surfaces a
// *TransactionError wrapping the last conflict. Non-conflict errors
// propagate immediately without retry.
func (m *Manager) Transaction(ctx context.Context, fn func(tx Executor) error) error {
	attempts, err := withConflictRetry(ctx, m.log, func(ctx context.Context) error {
		return m.runTx(ctx, fn)
	})
	if err != nil {
		if IsConflict(err) {
			return &TransactionError{Attempts: attempts, Err: err}
		}
		return err
	}
	return nil
}

// withConflictRetry runs op, retrying conflict-class failures up to
// txMaxRetries times with exponential backoff. It returns how many attempts
// were made and the final error (nil on success). Non-conflict errors stop
// the loop immediately.
func withConflictRetry(ctx context.Context, log *slog.Logger, op func(ctx context.Context) error) (int, error) {
	attempts := 0
	backoff := retry.WithMaxRetries(txMaxRetries, retry.NewExponential(txBackoffBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if IsConflict(err) {
			log.Warn("transaction conflict", "attempt", attempts, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	return attempts, err
}

// runTx is a single transaction attempt: begin, fn, commit, with rollback on
// any failure.
func (m *Manager) runTx(ctx context.Context, fn func(tx Executor) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer func() {
		// Rollback after a successful commit is a no-op error we ignore.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&txExecutor{tx: tx, log: m.log}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// PoolStats returns a snapshot of the pool without blocking.
func (m *Manager) PoolStats() PoolStats {
	s := m.pool.Stat()
	return PoolStats{
		Total:  s.TotalConns(),
		Active: s.AcquiredConns(),
		Idle:   s.IdleConns(),
	}
}

// startHealthCheck pings the database once a minute in the background.
// Failures are logged at WARN and never crash the process — a flapping
// network shows up in logs while requests keep failing fast on their own.
func (m *Manager) startHealthCheck() {
	ctx, cancel := context.WithCancel(context.Background())
	m.healthCancel = cancel
	m.healthDone = make(chan struct{})

	go func() {
		defer close(m.healthDone)
		ticker := time.NewTicker(healthCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pingCtx, pingCancel := context.WithTimeout(ctx, healthCheckTimeout)
				if err := m.pool.Ping(pingCtx); err != nil && !errors.Is(err, context.Canceled) {
					m.log.Warn("database health check failed", "error", err)
				}
				pingCancel()
			}
		}
	}()
}

// txExecutor adapts a pgx.Tx to the Executor interface so repo code keeps
// its named-query observability inside transactions.
type txExecutor struct {
	tx  pgx.Tx
	log *slog.Logger
}

func (e *txExecutor) Exec(ctx context.Context, name, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	tag, err := e.tx.Exec(ctx, sql, args...)
	if err != nil {
		return tag, &QueryError{Query: name, Duration: time.Since(start), Err: err}
	}
	return tag, nil
}

func (e *txExecutor) Query(ctx context.Context, name, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := e.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, &QueryError{Query: name, Duration: time.Since(start), Err: err}
	}
	return rows, nil
}

func (e *txExecutor) QueryRow(ctx context.Context, name, sql string, args ...any) pgx.Row {
	return &timedRow{row: e.tx.QueryRow(ctx, sql, args...), name: name, start: time.Now()}
}

// NewTxExecutor wraps an existing pgx.Tx in an Executor. Integration tests
// use this to run repos inside a transaction that is rolled back afterwards,
// giving free per-test isolation.
func NewTxExecutor(tx pgx.Tx, log *slog.Logger) Executor {
	return &txExecutor{tx: tx, log: log}
}

// timedRow defers error wrapping to Scan, where the error first surfaces.
type timedRow struct {
	row   pgx.Row
	name  string
	start time.Time
}

func (r *timedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return &QueryError{Query: r.name, Duration: time.Since(r.start), Err: err}
}
