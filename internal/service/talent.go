package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
	"github.com/mfarrell/cruise-guides/backend/internal/repo"
)

// TalentService implements business logic for the shared talent roster.
// Talents appear on any number of trips, so every mutation here blows away
// the whole view cache rather than guessing which trips reference the talent.
type TalentService struct {
	repo repo.TalentRepo
	inv  Invalidator
}

// NewTalentService constructs a TalentService backed by the provided TalentRepo.
func NewTalentService(r repo.TalentRepo, inv Invalidator) *TalentService {
	return &TalentService{repo: r, inv: inv}
}

// Create validates and persists a new talent.
func (s *TalentService) Create(ctx context.Context, talent domain.Talent) (domain.Talent, error) {
	if err := validateTalent(talent); err != nil {
		return domain.Talent{}, err
	}

	created, err := s.repo.Create(ctx, talent)
	if err != nil {
		return domain.Talent{}, err
	}

	s.inv.InvalidateAll()
	return created, nil
}

// GetByID returns a single talent.
func (s *TalentService) GetByID(ctx context.Context, id int64) (domain.Talent, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of talents ordered by name. The result is never nil.
func (s *TalentService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Talent, error) {
	talents, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, err
	}
	if talents == nil {
		talents = []domain.Talent{}
	}
	return talents, nil
}

// Update validates and persists changes to an existing talent.
func (s *TalentService) Update(ctx context.Context, talent domain.Talent) (domain.Talent, error) {
	if err := validateTalent(talent); err != nil {
		return domain.Talent{}, err
	}

	updated, err := s.repo.Update(ctx, talent)
	if err != nil {
		return domain.Talent{}, err
	}

	s.inv.InvalidateAll()
	return updated, nil
}

// Delete removes a talent and its trip and event links.
func (s *TalentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.inv.InvalidateAll()
	return nil
}

// ListCategories returns all talent categories.
func (s *TalentService) ListCategories(ctx context.Context) ([]domain.TalentCategory, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.TalentCategory{}
	}
	return categories, nil
}

func validateTalent(t domain.Talent) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if t.CategoryID <= 0 {
		return fmt.Errorf("category is required: %w", domain.ErrValidation)
	}
	return nil
}
