// Package aggregate assembles and caches the complete-trip view: one trip
// with its full itinerary, event schedule, and talent lineup, each nested
// reference resolved. It is the only component that may produce the view or
// write cache keys under its namespace; every mutation path in the system
// funnels through Invalidate.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mfarrell/cruise-guides/backend/internal/batch"
	"github.com/mfarrell/cruise-guides/backend/internal/cache"
	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// Namespace is the cache namespace owned by this package. No other component
// may write keys under it.
const Namespace = "complete-trip"

// Querier is the query surface the aggregator needs; *db.Manager satisfies
// it. Declared here so tests can script the database.
type Querier = batch.Querier

// Aggregator produces CompleteTripViews, caching each under both its ID and
// slug key forms. Concurrent cache misses for the same reference are
// collapsed into a single database round trip via singleflight, so a burst
// of requests after an invalidation does not stampede the database.
type Aggregator struct {
	q     Querier
	cache *cache.Cache
	log   *slog.Logger
	group singleflight.Group
}

// New constructs an Aggregator. All dependencies are explicit — there is no
// package-level instance.
func New(q Querier, c *cache.Cache, log *slog.Logger) *Aggregator {
	return &Aggregator{q: q, cache: c, log: log}
}

// GetCompleteTrip returns the assembled view for the referenced trip.
// Cache hits return immediately with no database access. On a miss the view
// is rebuilt from scratch: the trip row, then the three independent
// relations concurrently, then talent enrichment, then assembly. The result
// is stored under both key forms before returning. A missing trip returns
// domain.ErrNotFound and is never cached, so a trip created moments later is
// visible right away. Any failure mid-build aborts the whole fetch and
// caches nothing.
func (a *Aggregator) GetCompleteTrip(ctx context.Context, ref domain.TripRef) (*domain.CompleteTripView, error) {
	key := ref.CacheKey()
	if v, ok := a.cache.Get(Namespace, key); ok {
		if view, ok := v.(*domain.CompleteTripView); ok {
			return view.Clone(), nil
		}
	}

	v, err, _ := a.group.Do(key, func() (any, error) {
		// Re-check under the flight lock: a caller queued behind the winner
		// sees the winner's freshly cached result without another build.
		if cached, ok := a.cache.Get(Namespace, key); ok {
			if view, ok := cached.(*domain.CompleteTripView); ok {
				return view, nil
			}
		}
		return a.build(ctx, ref)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.CompleteTripView).Clone(), nil
}

// Invalidate removes both cache key forms for a trip. It is the single
// authoritative invalidation choke point: every mutation to a trip or its
// related entities calls here, and no other code assumes cache knowledge.
// Cache problems are logged and swallowed — invalidation failing open means
// the next read may serve a stale entry until its TTL, never a broken
// response.
func (a *Aggregator) Invalidate(tripID int64, slug string) {
	a.cache.Delete(Namespace, domain.TripRefID(tripID).CacheKey())
	if slug != "" {
		a.cache.Delete(Namespace, domain.TripRefSlug(slug).CacheKey())
	}
	a.log.Debug("invalidated complete trip", "trip_id", tripID, "slug", slug)
}

// InvalidateAll drops every cached view. Mutations to shared entities
// (talent, party themes, locations) can affect any number of trips, so the
// whole namespace goes.
func (a *Aggregator) InvalidateAll() {
	deleted, err := a.cache.DeleteByPattern(Namespace, "*")
	if err != nil {
		// Fail open: a cache fault degrades to hitting the database.
		a.log.Warn("cache invalidation failed", "error", err)
		return
	}
	a.log.Debug("invalidated all complete trips", "deleted", deleted)
}

// CacheStats returns hit/miss/size counters for the aggregate namespace.
func (a *Aggregator) CacheStats() cache.Stats {
	return a.cache.Stats(Namespace)
}

// build recomputes the view from the database. It is only ever reached on a
// cache miss, inside a singleflight flight.
func (a *Aggregator) build(ctx context.Context, ref domain.TripRef) (*domain.CompleteTripView, error) {
	trip, err := a.fetchTrip(ctx, ref)
	if err != nil {
		return nil, err
	}

	tripIDs := []int64{trip.ID}

	var (
		stops      []domain.ItineraryStop
		locations  map[int64]domain.Location
		events     []domain.Event
		themes     map[int64]domain.PartyTheme
		eventLinks map[int64][]domain.EventTalent
		tripLinks  []domain.TripTalent
	)

	// The three relations are independent, so they load concurrently; each
	// branch also resolves its own secondary references with one more
	// IN-query, never a query per row.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := batch.Load(gctx, a.q, itineraryRelation, tripIDs)
		if err != nil {
			return err
		}
		stops = m[trip.ID]
		locIDs := batch.OptionalKeys(stops, func(s domain.ItineraryStop) *int64 { return s.LocationID })
		locations, err = batch.LoadByIDs(gctx, a.q, locationLookup, locIDs)
		return err
	})

	g.Go(func() error {
		m, err := batch.Load(gctx, a.q, eventRelation, tripIDs)
		if err != nil {
			return err
		}
		events = m[trip.ID]

		themeIDs := batch.OptionalKeys(events, func(e domain.Event) *int64 { return e.PartyThemeID })
		themes, err = batch.LoadByIDs(gctx, a.q, partyThemeLookup, themeIDs)
		if err != nil {
			return err
		}

		eventIDs := make([]int64, 0, len(events))
		for _, e := range events {
			eventIDs = append(eventIDs, e.ID)
		}
		eventLinks, err = batch.Load(gctx, a.q, eventTalentRelation, eventIDs)
		return err
	})

	g.Go(func() error {
		m, err := batch.Load(gctx, a.q, tripTalentRelation, tripIDs)
		if err != nil {
			return err
		}
		tripLinks = m[trip.ID]
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate: load trip %d: %w", trip.ID, err)
	}

	// Talent enrichment needs the union of ids linked through the trip lineup
	// and through events, so it runs after the parallel stage.
	var talentIDs []int64
	for _, l := range tripLinks {
		talentIDs = append(talentIDs, l.TalentID)
	}
	for _, links := range eventLinks {
		for _, l := range links {
			talentIDs = append(talentIDs, l.TalentID)
		}
	}
	talentIDs = batch.Dedupe(talentIDs)

	talents, err := batch.LoadByIDs(ctx, a.q, talentLookup, talentIDs)
	if err != nil {
		return nil, fmt.Errorf("aggregate: load trip %d: %w", trip.ID, err)
	}

	var categoryIDs []int64
	for _, t := range talents {
		categoryIDs = append(categoryIDs, t.CategoryID)
	}
	categories, err := batch.LoadByIDs(ctx, a.q, talentCategoryLookup, batch.Dedupe(categoryIDs))
	if err != nil {
		return nil, fmt.Errorf("aggregate: load trip %d: %w", trip.ID, err)
	}

	view := a.assemble(trip, stops, locations, events, themes, eventLinks, talentIDs, talents, categories)

	// Store under both key forms so ID and slug lookups hit the same build.
	a.cache.Set(Namespace, domain.TripRefID(trip.ID).CacheKey(), view)
	a.cache.Set(Namespace, domain.TripRefSlug(trip.Slug).CacheKey(), view)

	a.log.Debug("assembled complete trip",
		"trip_id", trip.ID,
		"slug", trip.Slug,
		"itinerary", len(view.Itinerary),
		"events", len(view.Events),
		"talent", len(view.Talent),
	)
	return view, nil
}

// fetchTrip loads the trip row by ID or slug.
func (a *Aggregator) fetchTrip(ctx context.Context, ref domain.TripRef) (domain.Trip, error) {
	name, sql, arg := "trips.get_by_slug", queryTripBySlug, any(ref.Slug)
	if ref.IsID() {
		name, sql, arg = "trips.get_by_id", queryTripByID, any(ref.ID)
	}

	rows, err := a.q.Query(ctx, name, sql, arg)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("aggregate: fetch trip: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Trip{}, fmt.Errorf("aggregate: fetch trip: %w", err)
		}
		return domain.Trip{}, domain.ErrNotFound
	}
	trip, err := scanTrip(rows)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, fmt.Errorf("aggregate: fetch trip: scan: %w", err)
	}
	return trip, nil
}

// assemble joins the loaded rows into the final view. Input slices arrive in
// query order (itinerary by day+order, events by time, performers by billing
// order) and that order is preserved throughout.
func (a *Aggregator) assemble(
	trip domain.Trip,
	stops []domain.ItineraryStop,
	locations map[int64]domain.Location,
	events []domain.Event,
	themes map[int64]domain.PartyTheme,
	eventLinks map[int64][]domain.EventTalent,
	talentIDs []int64,
	talents map[int64]domain.Talent,
	categories map[int64]domain.TalentCategory,
) *domain.CompleteTripView {
	talentView := func(id int64) (domain.TalentView, bool) {
		t, ok := talents[id]
		if !ok {
			return domain.TalentView{}, false
		}
		return domain.TalentView{Talent: t, Category: categories[t.CategoryID].Category}, true
	}

	view := &domain.CompleteTripView{
		Trip:        trip,
		Itinerary:   make([]domain.ItineraryStopView, 0, len(stops)),
		Events:      make([]domain.EventView, 0, len(events)),
		Talent:      make([]domain.TalentView, 0, len(talentIDs)),
		BuildID:     uuid.New(),
		AssembledAt: time.Now(),
	}

	for _, s := range stops {
		sv := domain.ItineraryStopView{ItineraryStop: s}
		if s.LocationID != nil {
			// A dangling location reference leaves Location nil rather than
			// dropping the stop — itinerary cardinality stays correct.
			if loc, ok := locations[*s.LocationID]; ok {
				sv.Location = &loc
			}
		}
		view.Itinerary = append(view.Itinerary, sv)
	}

	for _, e := range events {
		ev := domain.EventView{Event: e}
		if e.PartyThemeID != nil {
			if theme, ok := themes[*e.PartyThemeID]; ok {
				ev.PartyTheme = &theme
			}
		}
		for _, link := range eventLinks[e.ID] {
			if tv, ok := talentView(link.TalentID); ok {
				ev.Performers = append(ev.Performers, tv)
			}
		}
		view.Events = append(view.Events, ev)
	}

	for _, id := range talentIDs {
		if tv, ok := talentView(id); ok {
			view.Talent = append(view.Talent, tv)
		}
	}
	sort.Slice(view.Talent, func(i, j int) bool {
		return view.Talent[i].Name < view.Talent[j].Name
	})

	return view
}
