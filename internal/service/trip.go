package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
	"github.com/mfarrell/cruise-guides/backend/internal/repo"
)

// TripService implements business logic for trip operations: field and
// date-range validation, slug rules, and the status state machine.
type TripService struct {
	repo repo.TripRepo
	inv  Invalidator
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo, inv Invalidator) *TripService {
	return &TripService{repo: r, inv: inv}
}

// Create validates and persists a new trip. New trips default to draft when
// no status is given.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.Status == "" {
		trip.Status = domain.StatusDraft
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, err
	}

	// A deleted trip may have left keys for this slug behind.
	s.inv.Invalidate(created.ID, created.Slug)
	return created, nil
}

// GetByID returns a single trip by its numeric ID.
func (s *TripService) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug returns a single trip by its slug.
func (s *TripService) GetBySlug(ctx context.Context, slug string) (domain.Trip, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// List returns a page of trips, most recent start date first. The result is
// never nil, so callers can range over it safely.
func (s *TripService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// Update validates and persists changes to an existing trip. Status changes
// must follow the publication state machine: draft and published move freely
// between each other, published trips can be archived, and archived is
// terminal. Setting the current status again is a no-op, not an error.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	existing, err := s.repo.GetByID(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, err
	}

	if trip.Status != existing.Status && !existing.Status.CanTransitionTo(trip.Status) {
		return domain.Trip{}, fmt.Errorf("status %s cannot become %s: %w",
			existing.Status, trip.Status, domain.ErrValidation)
	}

	updated, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, err
	}

	s.inv.Invalidate(updated.ID, existing.Slug)
	if updated.Slug != existing.Slug {
		s.inv.Invalidate(updated.ID, updated.Slug)
	}
	return updated, nil
}

// Delete removes a trip and everything hanging off it.
func (s *TripService) Delete(ctx context.Context, id int64) error {
	// Fetch first: the slug is needed to drop both cache key forms.
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.inv.Invalidate(existing.ID, existing.Slug)
	return nil
}

// validateTrip enforces the field rules shared by Create and Update.
func validateTrip(t domain.Trip) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if err := validateSlug(t.Slug); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", t.Status, domain.ErrValidation)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required: %w", domain.ErrValidation)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("end date before start date: %w", domain.ErrValidation)
	}
	return nil
}

// validateSlug rejects empty and all-digit slugs. An all-digit slug would be
// indistinguishable from a numeric ID in identifier lookups.
func validateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required: %w", domain.ErrValidation)
	}
	allDigits := true
	for _, r := range slug {
		if !unicode.IsDigit(r) {
			allDigits = false
		}
		if !unicode.IsDigit(r) && !unicode.IsLower(r) && r != '-' {
			return fmt.Errorf("slug %q may only contain lowercase letters, digits, and hyphens: %w",
				slug, domain.ErrValidation)
		}
	}
	if allDigits {
		return fmt.Errorf("slug %q must not be all digits: %w", slug, domain.ErrValidation)
	}
	return nil
}
