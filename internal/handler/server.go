// Package handler implements the HTTP handlers for the cruise guides API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, event.go, etc.) but all share the same Server struct so
// they can access its dependencies.
//
// The interfaces the handlers depend on are defined here, in the consumer
// package, following the "accept interfaces, return concrete types"
// convention. Handler tests inject fakes without touching the database or
// service layer.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/mfarrell/cruise-guides/backend/internal/cache"
	"github.com/mfarrell/cruise-guides/backend/internal/db"
	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id int64) (domain.Trip, error)
	GetBySlug(ctx context.Context, slug string) (domain.Trip, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id int64) error
}

// ItineraryServicer defines the operations the itinerary handlers depend on.
type ItineraryServicer interface {
	Get(ctx context.Context, tripID int64) ([]domain.ItineraryStop, error)
	Replace(ctx context.Context, tripID int64, stops []domain.ItineraryStop) ([]domain.ItineraryStop, error)
}

// EventServicer defines the operations the event handlers depend on.
type EventServicer interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id int64) (domain.Event, error)
	ListByTripID(ctx context.Context, tripID int64) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id int64) error
	ReplaceLineup(ctx context.Context, eventID int64, links []domain.EventTalent) error
}

// TalentServicer defines the operations the talent handlers depend on.
type TalentServicer interface {
	Create(ctx context.Context, talent domain.Talent) (domain.Talent, error)
	GetByID(ctx context.Context, id int64) (domain.Talent, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Talent, error)
	Update(ctx context.Context, talent domain.Talent) (domain.Talent, error)
	Delete(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]domain.TalentCategory, error)
}

// PartyThemeServicer defines the operations the party theme handlers depend on.
type PartyThemeServicer interface {
	Create(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error)
	GetByID(ctx context.Context, id int64) (domain.PartyTheme, error)
	List(ctx context.Context) ([]domain.PartyTheme, error)
	Update(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error)
}

// Aggregator defines the complete-view operations the handlers depend on.
// *aggregate.Aggregator satisfies it.
type Aggregator interface {
	GetCompleteTrip(ctx context.Context, ref domain.TripRef) (*domain.CompleteTripView, error)
	CacheStats() cache.Stats
}

// PoolStatser reports connection pool gauges. *db.Manager satisfies it.
type PoolStatser interface {
	PoolStats() db.PoolStats
}

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	trips     TripServicer
	itinerary ItineraryServicer
	events    EventServicer
	talent    TalentServicer
	themes    PartyThemeServicer
	agg       Aggregator
	pool      PoolStatser
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	trips TripServicer,
	itinerary ItineraryServicer,
	events EventServicer,
	talent TalentServicer,
	themes PartyThemeServicer,
	agg Aggregator,
	pool PoolStatser,
) *Server {
	return &Server{
		trips:     trips,
		itinerary: itinerary,
		events:    events,
		talent:    talent,
		themes:    themes,
		agg:       agg,
		pool:      pool,
	}
}

// Routes mounts every endpoint on a fresh chi router. Middleware is applied
// by the caller (cmd/api) so tests can exercise routes without it.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)

			// {id} here is an identifier: a numeric ID or a slug. Only the
			// complete endpoint accepts both forms; the rest parse it as a
			// numeric ID and reject slugs.
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/complete", s.GetCompleteTrip)
				r.Get("/", s.GetTrip)
				r.Put("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)

				r.Get("/itinerary", s.GetItinerary)
				r.Put("/itinerary", s.ReplaceItinerary)

				r.Get("/events", s.ListTripEvents)
				r.Post("/events", s.CreateEvent)
			})
		})

		r.Route("/events/{id}", func(r chi.Router) {
			r.Get("/", s.GetEvent)
			r.Put("/", s.UpdateEvent)
			r.Delete("/", s.DeleteEvent)
			r.Put("/lineup", s.ReplaceEventLineup)
		})

		r.Route("/talent", func(r chi.Router) {
			r.Get("/", s.ListTalent)
			r.Post("/", s.CreateTalent)
			r.Get("/categories", s.ListTalentCategories)
			r.Get("/{id}", s.GetTalent)
			r.Put("/{id}", s.UpdateTalent)
			r.Delete("/{id}", s.DeleteTalent)
		})

		r.Route("/party-themes", func(r chi.Router) {
			r.Get("/", s.ListPartyThemes)
			r.Post("/", s.CreatePartyTheme)
			r.Get("/{id}", s.GetPartyTheme)
			r.Put("/{id}", s.UpdatePartyTheme)
		})

		r.Get("/stats", s.GetStats)
	})

	return r
}
