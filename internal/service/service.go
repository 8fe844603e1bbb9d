// Package service contains the business logic for the cruise guides API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
//
// Every mutation ends by telling the aggregator what went stale. Services are
// the only callers of Invalidate/InvalidateAll; nothing else in the system is
// allowed to assume what the cache holds.
package service

// Invalidator is the slice of the view aggregator the services need:
// targeted invalidation for trip-scoped mutations, full invalidation for
// mutations to entities shared across trips.
type Invalidator interface {
	Invalidate(tripID int64, slug string)
	InvalidateAll()
}
