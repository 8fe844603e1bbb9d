// Package batch turns "N queries for N parents" into one query per related
// table. Given a set of parent IDs it issues a single WHERE fk = ANY($1)
// query, then groups the result set by foreign key in one pass — the N+1
// pattern becomes O(1) round trips per relation regardless of parent count.
package batch

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is the minimal query surface the loader needs. *db.Manager and the
// transaction executor satisfy it; tests supply a fake.
type Querier interface {
	Query(ctx context.Context, name, sql string, args ...any) (pgx.Rows, error)
}

// Scanner is satisfied by both pgx.Row and pgx.Rows, so relation scan
// functions can be reused for single-row and multi-row queries.
type Scanner interface {
	Scan(dest ...any) error
}

// Relation describes how to load one related table for a set of parents.
// SQL must select all rows whose foreign key is in the $1 array and order
// them by the table's stable secondary key (display order, date+time) — the
// grouped buckets preserve that order, so callers never re-sort.
type Relation[P comparable, R any] struct {
	// Name identifies the query in logs and errors.
	Name string
	// SQL is the batched query with exactly one $1 parameter: the parent key array.
	SQL string
	// Key extracts the parent key a scanned row belongs to.
	Key func(R) P
	// Scan maps one result row to R.
	Scan func(Scanner) (R, error)
}

// Lookup describes a secondary enrichment table fetched by primary key:
// party themes for events, locations for itinerary stops. One IN-query for
// all observed keys, joined in memory — never a re-query per row.
type Lookup[K comparable, R any] struct {
	Name string
	SQL  string
	Key  func(R) K
	Scan func(Scanner) (R, error)
}

// Load fetches rel for every parent in parents with a single query and
// groups the rows into per-parent buckets. Parents with no related rows are
// simply absent from the map. An empty parents slice returns an empty map
// without touching the Querier — the designed fast path.
func Load[P comparable, R any](ctx context.Context, q Querier, rel Relation[P, R], parents []P) (map[P][]R, error) {
	out := make(map[P][]R, len(parents))
	if len(parents) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx, rel.Name, rel.SQL, parents)
	if err != nil {
		return nil, fmt.Errorf("batch.Load %s: %w", rel.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := rel.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("batch.Load %s: scan: %w", rel.Name, err)
		}
		k := rel.Key(r)
		out[k] = append(out[k], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("batch.Load %s: rows: %w", rel.Name, err)
	}

	return out, nil
}

// LoadByIDs fetches lookup rows for the given keys with a single query and
// indexes them by key. Duplicate input keys are collapsed before querying.
// An empty key set returns an empty map without touching the Querier.
func LoadByIDs[K comparable, R any](ctx context.Context, q Querier, l Lookup[K, R], ids []K) (map[K]R, error) {
	out := make(map[K]R, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx, l.Name, l.SQL, Dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("batch.LoadByIDs %s: %w", l.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := l.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("batch.LoadByIDs %s: scan: %w", l.Name, err)
		}
		out[l.Key(r)] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("batch.LoadByIDs %s: rows: %w", l.Name, err)
	}

	return out, nil
}

// Dedupe returns keys with duplicates removed, preserving first-seen order.
func Dedupe[K comparable](keys []K) []K {
	seen := make(map[K]struct{}, len(keys))
	out := make([]K, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// OptionalKeys collects the non-nil optional foreign keys observed across
// items, deduplicated. Rows without the reference contribute nothing — the
// parent rows themselves are never filtered, so enrichment being unavailable
// never changes collection cardinality.
func OptionalKeys[R any, K comparable](items []R, key func(R) *K) []K {
	var out []K
	for _, it := range items {
		if k := key(it); k != nil {
			out = append(out, *k)
		}
	}
	return Dedupe(out)
}
