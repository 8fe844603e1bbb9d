package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
	"github.com/mfarrell/cruise-guides/backend/internal/repo"
)

// PartyThemeService implements business logic for the shared party theme
// catalog. Like talents, themes cut across trips, so mutations invalidate
// the whole view cache.
type PartyThemeService struct {
	repo repo.PartyThemeRepo
	inv  Invalidator
}

// NewPartyThemeService constructs a PartyThemeService.
func NewPartyThemeService(r repo.PartyThemeRepo, inv Invalidator) *PartyThemeService {
	return &PartyThemeService{repo: r, inv: inv}
}

// Create validates and persists a new theme.
func (s *PartyThemeService) Create(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error) {
	if strings.TrimSpace(theme.Name) == "" {
		return domain.PartyTheme{}, fmt.Errorf("name is required: %w", domain.ErrValidation)
	}

	created, err := s.repo.Create(ctx, theme)
	if err != nil {
		return domain.PartyTheme{}, err
	}

	s.inv.InvalidateAll()
	return created, nil
}

// GetByID returns a single theme.
func (s *PartyThemeService) GetByID(ctx context.Context, id int64) (domain.PartyTheme, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all themes ordered by name. The result is never nil.
func (s *PartyThemeService) List(ctx context.Context) ([]domain.PartyTheme, error) {
	themes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if themes == nil {
		themes = []domain.PartyTheme{}
	}
	return themes, nil
}

// Update validates and persists changes to an existing theme.
func (s *PartyThemeService) Update(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error) {
	if strings.TrimSpace(theme.Name) == "" {
		return domain.PartyTheme{}, fmt.Errorf("name is required: %w", domain.ErrValidation)
	}

	updated, err := s.repo.Update(ctx, theme)
	if err != nil {
		return domain.PartyTheme{}, err
	}

	s.inv.InvalidateAll()
	return updated, nil
}
