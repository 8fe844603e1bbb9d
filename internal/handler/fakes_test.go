package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mfarrell/cruise-guides/backend/internal/cache"
	"github.com/mfarrell/cruise-guides/backend/internal/db"
	"github.com/mfarrell/cruise-guides/backend/internal/domain"
	"github.com/mfarrell/cruise-guides/backend/internal/handler"
)

// Function-field fakes for each servicer interface, mirroring the service
// package's repo mocks. Unset methods panic, which fails the test loudly if a
// handler calls something the test didn't expect.

type fakeTripService struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id int64) (domain.Trip, error)
	getBySlug func(ctx context.Context, slug string) (domain.Trip, error)
	list      func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, error)
	update    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete    func(ctx context.Context, id int64) error
}

func (f *fakeTripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return f.create(ctx, trip)
}
func (f *fakeTripService) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	return f.getByID(ctx, id)
}
func (f *fakeTripService) GetBySlug(ctx context.Context, slug string) (domain.Trip, error) {
	return f.getBySlug(ctx, slug)
}
func (f *fakeTripService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, error) {
	return f.list(ctx, p)
}
func (f *fakeTripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return f.update(ctx, trip)
}
func (f *fakeTripService) Delete(ctx context.Context, id int64) error {
	return f.delete(ctx, id)
}

type fakeItineraryService struct {
	get     func(ctx context.Context, tripID int64) ([]domain.ItineraryStop, error)
	replace func(ctx context.Context, tripID int64, stops []domain.ItineraryStop) ([]domain.ItineraryStop, error)
}

func (f *fakeItineraryService) Get(ctx context.Context, tripID int64) ([]domain.ItineraryStop, error) {
	return f.get(ctx, tripID)
}
func (f *fakeItineraryService) Replace(ctx context.Context, tripID int64, stops []domain.ItineraryStop) ([]domain.ItineraryStop, error) {
	return f.replace(ctx, tripID, stops)
}

type fakeEventService struct {
	create        func(ctx context.Context, event domain.Event) (domain.Event, error)
	getByID       func(ctx context.Context, id int64) (domain.Event, error)
	listByTripID  func(ctx context.Context, tripID int64) ([]domain.Event, error)
	update        func(ctx context.Context, event domain.Event) (domain.Event, error)
	delete        func(ctx context.Context, id int64) error
	replaceLineup func(ctx context.Context, eventID int64, links []domain.EventTalent) error
}

func (f *fakeEventService) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	return f.create(ctx, event)
}
func (f *fakeEventService) GetByID(ctx context.Context, id int64) (domain.Event, error) {
	return f.getByID(ctx, id)
}
func (f *fakeEventService) ListByTripID(ctx context.Context, tripID int64) ([]domain.Event, error) {
	return f.listByTripID(ctx, tripID)
}
func (f *fakeEventService) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	return f.update(ctx, event)
}
func (f *fakeEventService) Delete(ctx context.Context, id int64) error {
	return f.delete(ctx, id)
}
func (f *fakeEventService) ReplaceLineup(ctx context.Context, eventID int64, links []domain.EventTalent) error {
	return f.replaceLineup(ctx, eventID, links)
}

type fakeTalentService struct {
	create         func(ctx context.Context, talent domain.Talent) (domain.Talent, error)
	getByID        func(ctx context.Context, id int64) (domain.Talent, error)
	list           func(ctx context.Context, p domain.PaginationParams) ([]domain.Talent, error)
	update         func(ctx context.Context, talent domain.Talent) (domain.Talent, error)
	delete         func(ctx context.Context, id int64) error
	listCategories func(ctx context.Context) ([]domain.TalentCategory, error)
}

func (f *fakeTalentService) Create(ctx context.Context, talent domain.Talent) (domain.Talent, error) {
	return f.create(ctx, talent)
}
func (f *fakeTalentService) GetByID(ctx context.Context, id int64) (domain.Talent, error) {
	return f.getByID(ctx, id)
}
func (f *fakeTalentService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Talent, error) {
	return f.list(ctx, p)
}
func (f *fakeTalentService) Update(ctx context.Context, talent domain.Talent) (domain.Talent, error) {
	return f.update(ctx, talent)
}
func (f *fakeTalentService) Delete(ctx context.Context, id int64) error {
	return f.delete(ctx, id)
}
func (f *fakeTalentService) ListCategories(ctx context.Context) ([]domain.TalentCategory, error) {
	return f.listCategories(ctx)
}

type fakePartyThemeService struct {
	create  func(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error)
	getByID func(ctx context.Context, id int64) (domain.PartyTheme, error)
	list    func(ctx context.Context) ([]domain.PartyTheme, error)
	update  func(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error)
}

func (f *fakePartyThemeService) Create(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error) {
	return f.create(ctx, theme)
}
func (f *fakePartyThemeService) GetByID(ctx context.Context, id int64) (domain.PartyTheme, error) {
	return f.getByID(ctx, id)
}
func (f *fakePartyThemeService) List(ctx context.Context) ([]domain.PartyTheme, error) {
	return f.list(ctx)
}
func (f *fakePartyThemeService) Update(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error) {
	return f.update(ctx, theme)
}

type fakeAggregator struct {
	getCompleteTrip func(ctx context.Context, ref domain.TripRef) (*domain.CompleteTripView, error)
	cacheStats      func() cache.Stats
}

func (f *fakeAggregator) GetCompleteTrip(ctx context.Context, ref domain.TripRef) (*domain.CompleteTripView, error) {
	return f.getCompleteTrip(ctx, ref)
}
func (f *fakeAggregator) CacheStats() cache.Stats {
	if f.cacheStats == nil {
		return cache.Stats{}
	}
	return f.cacheStats()
}

type fakePoolStatser struct {
	stats db.PoolStats
}

func (f *fakePoolStatser) PoolStats() db.PoolStats { return f.stats }

// deps bundles one fake per dependency; newServer turns it into a router.
type deps struct {
	trips     *fakeTripService
	itinerary *fakeItineraryService
	events    *fakeEventService
	talent    *fakeTalentService
	themes    *fakePartyThemeService
	agg       *fakeAggregator
	pool      *fakePoolStatser
}

func newServer(d deps) http.Handler {
	if d.trips == nil {
		d.trips = &fakeTripService{}
	}
	if d.itinerary == nil {
		d.itinerary = &fakeItineraryService{}
	}
	if d.events == nil {
		d.events = &fakeEventService{}
	}
	if d.talent == nil {
		d.talent = &fakeTalentService{}
	}
	if d.themes == nil {
		d.themes = &fakePartyThemeService{}
	}
	if d.agg == nil {
		d.agg = &fakeAggregator{}
	}
	if d.pool == nil {
		d.pool = &fakePoolStatser{}
	}
	return handler.NewServer(d.trips, d.itinerary, d.events, d.talent, d.themes, d.agg, d.pool).Routes()
}

// do runs a request against the router and returns the recorder.
func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
