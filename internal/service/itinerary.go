package service

import (
	"context"
	"fmt"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
	"github.com/mfarrell/cruise-guides/backend/internal/repo"
)

// ItineraryService implements business logic for a trip's day-by-day
// itinerary. The itinerary is only ever written whole: callers submit the
// complete ordered stop list and the previous one is discarded.
type ItineraryService struct {
	trips repo.TripRepo
	itin  repo.ItineraryRepo
	inv   Invalidator
}

// NewItineraryService constructs an ItineraryService. Pass an ItineraryRepo
// from repo.NewTxItineraryRepo so Replace is atomic.
func NewItineraryService(trips repo.TripRepo, itin repo.ItineraryRepo, inv Invalidator) *ItineraryService {
	return &ItineraryService{trips: trips, itin: itin, inv: inv}
}

// Get returns the trip's stops in display order. The result is never nil.
func (s *ItineraryService) Get(ctx context.Context, tripID int64) ([]domain.ItineraryStop, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	stops, err := s.itin.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if stops == nil {
		stops = []domain.ItineraryStop{}
	}
	return stops, nil
}

// Replace validates and stores a complete new itinerary for the trip.
func (s *ItineraryService) Replace(ctx context.Context, tripID int64, stops []domain.ItineraryStop) ([]domain.ItineraryStop, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	for i, stop := range stops {
		if stop.Day < 1 {
			return nil, fmt.Errorf("stop %d: day must be at least 1: %w", i, domain.ErrValidation)
		}
		if stop.LocationName == "" && stop.LocationID == nil {
			return nil, fmt.Errorf("stop %d: a location name or reference is required: %w", i, domain.ErrValidation)
		}
	}

	saved, err := s.itin.Replace(ctx, tripID, stops)
	if err != nil {
		return nil, err
	}

	s.inv.Invalidate(trip.ID, trip.Slug)
	if saved == nil {
		saved = []domain.ItineraryStop{}
	}
	return saved, nil
}
