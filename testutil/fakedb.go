package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// FakeQuerier is an in-memory stand-in for the database executor used by the
// batch loader and aggregator. Results are scripted per query name; every
// call is recorded so tests can assert on exactly how many round trips were
// made (or that none were).
//
// Unscripted query names return an empty row set, which mirrors a relation
// with no matching rows.
type FakeQuerier struct {
	mu sync.Mutex

	// Results maps query name → rows, where each row is a []any whose cells
	// line up with the scan destinations of that query.
	Results map[string][][]any

	// Errors maps query name → error to return instead of rows.
	Errors map[string]error

	calls []QueryCall
}

// QueryCall records one Query invocation.
type QueryCall struct {
	Name string
	SQL  string
	Args []any
}

// Query implements the batch.Querier / aggregate.Querier interface.
func (f *FakeQuerier) Query(_ context.Context, name, sql string, args ...any) (pgx.Rows, error) {
	f.mu.Lock()
	f.calls = append(f.calls, QueryCall{Name: name, SQL: sql, Args: args})
	f.mu.Unlock()

	if err, ok := f.Errors[name]; ok {
		return nil, err
	}
	return NewFakeRows(f.Results[name]), nil
}

// Calls returns a copy of all recorded query calls.
func (f *FakeQuerier) Calls() []QueryCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]QueryCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times the named query was issued.
func (f *FakeQuerier) CallCount(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Name == name {
			n++
		}
	}
	return n
}

// TotalCalls returns how many queries were issued in total.
func (f *FakeQuerier) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Reset clears the recorded calls but keeps the scripted results.
func (f *FakeQuerier) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// NewFakeRows wraps scripted row data in a pgx.Rows implementation.
// Scan assigns cells to destinations by reflection: assignable and
// convertible types are set directly, nil cells become zero values, and a
// value scanned into a pointer destination is boxed (for nullable columns).
func NewFakeRows(data [][]any) pgx.Rows {
	return &fakeRows{data: data, idx: -1}
}

type fakeRows struct {
	data   [][]any
	idx    int
	err    error
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.closed || r.err != nil {
		return false
	}
	r.idx++
	return r.idx < len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.data) {
		return fmt.Errorf("fakeRows.Scan: no current row")
	}
	row := r.data[r.idx]
	if len(dest) != len(row) {
		return fmt.Errorf("fakeRows.Scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			r.err = err
			return err
		}
	}
	return nil
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error) {
	if r.idx < 0 || r.idx >= len(r.data) {
		return nil, fmt.Errorf("fakeRows.Values: no current row")
	}
	return r.data[r.idx], nil
}
func (r *fakeRows) RawValues() [][]byte { return nil }
func (r *fakeRows) Conn() *pgx.Conn     { return nil }

// assign sets *dest = val using reflection.
func assign(dest, val any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("fakeRows.Scan: destination must be a non-nil pointer, got %T", dest)
	}
	elem := dv.Elem()

	if val == nil {
		elem.SetZero()
		return nil
	}

	v := reflect.ValueOf(val)
	switch {
	case v.Type().AssignableTo(elem.Type()):
		elem.Set(v)
	case v.Type().ConvertibleTo(elem.Type()) && elem.Kind() != reflect.Ptr:
		elem.Set(v.Convert(elem.Type()))
	case elem.Kind() == reflect.Ptr && v.Type().AssignableTo(elem.Type().Elem()):
		p := reflect.New(elem.Type().Elem())
		p.Elem().Set(v)
		elem.Set(p)
	case elem.Kind() == reflect.Ptr && v.Type().ConvertibleTo(elem.Type().Elem()):
		p := reflect.New(elem.Type().Elem())
		p.Elem().Set(v.Convert(elem.Type().Elem()))
		elem.Set(p)
	default:
		return fmt.Errorf("fakeRows.Scan: cannot assign %T to %T", val, dest)
	}
	return nil
}
