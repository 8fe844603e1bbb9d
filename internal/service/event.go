package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
	"github.com/mfarrell/cruise-guides/backend/internal/repo"
)

// EventService implements business logic for a trip's event schedule and the
// performer lineups attached to events.
type EventService struct {
	trips  repo.TripRepo
	events repo.EventRepo
	inv    Invalidator
}

// NewEventService constructs an EventService. Pass an EventRepo from
// repo.NewTxEventRepo so lineup rewrites are atomic.
func NewEventService(trips repo.TripRepo, events repo.EventRepo, inv Invalidator) *EventService {
	return &EventService{trips: trips, events: events, inv: inv}
}

// Create validates and persists a new event on the given trip.
func (s *EventService) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	if err := validateEvent(event); err != nil {
		return domain.Event{}, err
	}

	trip, err := s.trips.GetByID(ctx, event.TripID)
	if err != nil {
		return domain.Event{}, err
	}

	created, err := s.events.Create(ctx, event)
	if err != nil {
		return domain.Event{}, err
	}

	s.inv.Invalidate(trip.ID, trip.Slug)
	return created, nil
}

// GetByID returns a single event.
func (s *EventService) GetByID(ctx context.Context, id int64) (domain.Event, error) {
	return s.events.GetByID(ctx, id)
}

// ListByTripID returns the trip's events in chronological order. The result
// is never nil.
func (s *EventService) ListByTripID(ctx context.Context, tripID int64) ([]domain.Event, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	events, err := s.events.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

// Update validates and persists changes to an existing event. Events never
// move between trips; the stored trip binding wins over whatever the caller
// sent.
func (s *EventService) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	existing, err := s.events.GetByID(ctx, event.ID)
	if err != nil {
		return domain.Event{}, err
	}
	event.TripID = existing.TripID

	if err := validateEvent(event); err != nil {
		return domain.Event{}, err
	}

	updated, err := s.events.Update(ctx, event)
	if err != nil {
		return domain.Event{}, err
	}

	s.invalidateTrip(ctx, existing.TripID)
	return updated, nil
}

// Delete removes an event and its lineup.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	existing, err := s.events.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateTrip(ctx, existing.TripID)
	return nil
}

// ReplaceLineup validates and rewrites the event's performer billing.
func (s *EventService) ReplaceLineup(ctx context.Context, eventID int64, links []domain.EventTalent) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	seen := make(map[int64]bool, len(links))
	for i, l := range links {
		if l.TalentID <= 0 {
			return fmt.Errorf("lineup entry %d: talent id is required: %w", i, domain.ErrValidation)
		}
		if seen[l.TalentID] {
			return fmt.Errorf("lineup entry %d: talent %d listed twice: %w", i, l.TalentID, domain.ErrValidation)
		}
		seen[l.TalentID] = true
	}

	if err := s.events.ReplaceLineup(ctx, eventID, links); err != nil {
		return err
	}

	s.invalidateTrip(ctx, event.TripID)
	return nil
}

// invalidateTrip resolves the trip's slug and drops both cache key forms.
// If the trip row is gone the ID key still gets dropped.
func (s *EventService) invalidateTrip(ctx context.Context, tripID int64) {
	slug := ""
	if trip, err := s.trips.GetByID(ctx, tripID); err == nil {
		slug = trip.Slug
	}
	s.inv.Invalidate(tripID, slug)
}

func validateEvent(e domain.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if e.StartsAt.IsZero() {
		return fmt.Errorf("start time is required: %w", domain.ErrValidation)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("unknown event type %q: %w", e.Type, domain.ErrValidation)
	}
	return nil
}
