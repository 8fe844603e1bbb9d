package service_test

import (
	"context"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
	"github.com/mfarrell/cruise-guides/backend/internal/repo"
	"github.com/mfarrell/cruise-guides/backend/internal/service"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field — set only the ones your test needs. No mock generation
// library required for simple cases.

type mockTripRepo struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id int64) (domain.Trip, error)
	getBySlug func(ctx context.Context, slug string) (domain.Trip, error)
	list      func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, error)
	update    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete    func(ctx context.Context, id int64) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) GetBySlug(ctx context.Context, slug string) (domain.Trip, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockTripRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, error) {
	return m.list(ctx, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockItineraryRepo struct {
	listByTripID func(ctx context.Context, tripID int64) ([]domain.ItineraryStop, error)
	replace      func(ctx context.Context, tripID int64, stops []domain.ItineraryStop) ([]domain.ItineraryStop, error)
}

func (m *mockItineraryRepo) ListByTripID(ctx context.Context, tripID int64) ([]domain.ItineraryStop, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockItineraryRepo) Replace(ctx context.Context, tripID int64, stops []domain.ItineraryStop) ([]domain.ItineraryStop, error) {
	return m.replace(ctx, tripID, stops)
}

var _ repo.ItineraryRepo = (*mockItineraryRepo)(nil)

type mockEventRepo struct {
	create        func(ctx context.Context, event domain.Event) (domain.Event, error)
	getByID       func(ctx context.Context, id int64) (domain.Event, error)
	listByTripID  func(ctx context.Context, tripID int64) ([]domain.Event, error)
	update        func(ctx context.Context, event domain.Event) (domain.Event, error)
	delete        func(ctx context.Context, id int64) error
	replaceLineup func(ctx context.Context, eventID int64, links []domain.EventTalent) error
}

func (m *mockEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.create(ctx, event)
}
func (m *mockEventRepo) GetByID(ctx context.Context, id int64) (domain.Event, error) {
	return m.getByID(ctx, id)
}
func (m *mockEventRepo) ListByTripID(ctx context.Context, tripID int64) ([]domain.Event, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.update(ctx, event)
}
func (m *mockEventRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockEventRepo) ReplaceLineup(ctx context.Context, eventID int64, links []domain.EventTalent) error {
	return m.replaceLineup(ctx, eventID, links)
}

var _ repo.EventRepo = (*mockEventRepo)(nil)

type mockTalentRepo struct {
	create         func(ctx context.Context, talent domain.Talent) (domain.Talent, error)
	getByID        func(ctx context.Context, id int64) (domain.Talent, error)
	list           func(ctx context.Context, p domain.PaginationParams) ([]domain.Talent, error)
	update         func(ctx context.Context, talent domain.Talent) (domain.Talent, error)
	delete         func(ctx context.Context, id int64) error
	listCategories func(ctx context.Context) ([]domain.TalentCategory, error)
}

func (m *mockTalentRepo) Create(ctx context.Context, talent domain.Talent) (domain.Talent, error) {
	return m.create(ctx, talent)
}
func (m *mockTalentRepo) GetByID(ctx context.Context, id int64) (domain.Talent, error) {
	return m.getByID(ctx, id)
}
func (m *mockTalentRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Talent, error) {
	return m.list(ctx, p)
}
func (m *mockTalentRepo) Update(ctx context.Context, talent domain.Talent) (domain.Talent, error) {
	return m.update(ctx, talent)
}
func (m *mockTalentRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockTalentRepo) ListCategories(ctx context.Context) ([]domain.TalentCategory, error) {
	return m.listCategories(ctx)
}

var _ repo.TalentRepo = (*mockTalentRepo)(nil)

type mockPartyThemeRepo struct {
	create  func(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error)
	getByID func(ctx context.Context, id int64) (domain.PartyTheme, error)
	list    func(ctx context.Context) ([]domain.PartyTheme, error)
	update  func(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error)
}

func (m *mockPartyThemeRepo) Create(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error) {
	return m.create(ctx, theme)
}
func (m *mockPartyThemeRepo) GetByID(ctx context.Context, id int64) (domain.PartyTheme, error) {
	return m.getByID(ctx, id)
}
func (m *mockPartyThemeRepo) List(ctx context.Context) ([]domain.PartyTheme, error) {
	return m.list(ctx)
}
func (m *mockPartyThemeRepo) Update(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error) {
	return m.update(ctx, theme)
}

var _ repo.PartyThemeRepo = (*mockPartyThemeRepo)(nil)

// spyInvalidator records every invalidation so tests can assert that
// mutations hit the cache choke point.
type spyInvalidator struct {
	invalidated []invalidation
	allCount    int
}

type invalidation struct {
	tripID int64
	slug   string
}

func (s *spyInvalidator) Invalidate(tripID int64, slug string) {
	s.invalidated = append(s.invalidated, invalidation{tripID: tripID, slug: slug})
}

func (s *spyInvalidator) InvalidateAll() {
	s.allCount++
}

var _ service.Invalidator = (*spyInvalidator)(nil)
