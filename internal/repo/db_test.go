package repo_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mfarrell/cruise-guides/backend/internal/db"
	"github.com/mfarrell/cruise-guides/backend/internal/domain"
	"github.com/mfarrell/cruise-guides/backend/internal/repo"
	"github.com/mfarrell/cruise-guides/backend/testutil"
)

// newTestExecutor opens a transaction against the test database and returns an
// executor backed by it. The transaction is rolled back when the test
// finishes, giving free per-test isolation without any cleanup SQL.
//
// Requires TEST_DATABASE_URL to be set; tests skip automatically otherwise.
func newTestExecutor(t *testing.T) db.Executor {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return db.NewTxExecutor(tx, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// tripFixture returns a domain.Trip with sensible defaults. Callers override
// individual fields after calling this function.
func tripFixture() domain.Trip {
	return domain.Trip{
		Name:      "Mediterranean Odyssey",
		Slug:      "mediterranean-odyssey-2026",
		StartDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC),
		Status:    domain.StatusDraft,
		ShipName:  "Resilient Lady",
	}
}

// createTrip inserts a trip through the repo and fails the test on error.
func createTrip(t *testing.T, ex db.Executor) domain.Trip {
	t.Helper()
	trip, err := repo.NewTripRepo(ex).Create(context.Background(), tripFixture())
	require.NoError(t, err, "create trip fixture")
	return trip
}

// createCategory inserts a talent category directly; TalentRepo has no
// category write path because categories are seed data in production.
func createCategory(t *testing.T, ex db.Executor, name string) int64 {
	t.Helper()
	var id int64
	row := ex.QueryRow(context.Background(), "test.create_category",
		`INSERT INTO talent_categories (category) VALUES ($1) RETURNING id`, name)
	require.NoError(t, row.Scan(&id), "create category fixture")
	return id
}

// createTalent inserts a talent through the repo and fails the test on error.
func createTalent(t *testing.T, ex db.Executor, categoryID int64, name string) domain.Talent {
	t.Helper()
	talent, err := repo.NewTalentRepo(ex).Create(context.Background(), domain.Talent{
		Name:       name,
		CategoryID: categoryID,
	})
	require.NoError(t, err, "create talent fixture")
	return talent
}
