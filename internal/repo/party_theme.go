package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mfarrell/cruise-guides/backend/internal/db"
	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// PartyThemeRepo defines the persistence operations for party themes. Themes
// are shared across events and trips, so mutations stale the whole view cache.
type PartyThemeRepo interface {
	Create(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error)

	// GetByID returns domain.ErrNotFound if no theme with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.PartyTheme, error)

	// List returns all themes ordered by name.
	List(ctx context.Context) ([]domain.PartyTheme, error)

	// Update returns domain.ErrNotFound if the theme does not exist.
	Update(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error)
}

const themeColumns = `id, name, short_description, costume_ideas, image_url`

type pgPartyThemeRepo struct {
	db db.Executor
}

// NewPartyThemeRepo constructs a PartyThemeRepo backed by the provided executor.
func NewPartyThemeRepo(db db.Executor) PartyThemeRepo {
	return &pgPartyThemeRepo{db: db}
}

func (r *pgPartyThemeRepo) Create(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error) {
	const q = `
		INSERT INTO party_themes (name, short_description, costume_ideas, image_url)
		VALUES (@name, @short_description, @costume_ideas, @image_url)
		RETURNING ` + themeColumns

	row := r.db.QueryRow(ctx, "party_themes.create", q, themeArgs(theme))
	result, err := scanTheme(row)
	if err != nil {
		return domain.PartyTheme{}, fmt.Errorf("repo.PartyThemeRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPartyThemeRepo) GetByID(ctx context.Context, id int64) (domain.PartyTheme, error) {
	const q = `SELECT ` + themeColumns + ` FROM party_themes WHERE id = @id`

	row := r.db.QueryRow(ctx, "party_themes.get_by_id", q, pgx.NamedArgs{"id": id})
	result, err := scanTheme(row)
	if err != nil {
		return domain.PartyTheme{}, fmt.Errorf("repo.PartyThemeRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPartyThemeRepo) List(ctx context.Context) ([]domain.PartyTheme, error) {
	const q = `SELECT ` + themeColumns + ` FROM party_themes ORDER BY name`

	rows, err := r.db.Query(ctx, "party_themes.list", q)
	if err != nil {
		return nil, fmt.Errorf("repo.PartyThemeRepo.List: %w", err)
	}
	defer rows.Close()

	var themes []domain.PartyTheme
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PartyThemeRepo.List: scan: %w", err)
		}
		themes = append(themes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PartyThemeRepo.List: rows: %w", err)
	}

	return themes, nil
}

func (r *pgPartyThemeRepo) Update(ctx context.Context, theme domain.PartyTheme) (domain.PartyTheme, error) {
	const q = `
		UPDATE party_themes
		SET name              = @name,
		    short_description = @short_description,
		    costume_ideas     = @costume_ideas,
		    image_url         = @image_url
		WHERE id = @id
		RETURNING ` + themeColumns

	args := themeArgs(theme)
	args["id"] = theme.ID

	row := r.db.QueryRow(ctx, "party_themes.update", q, args)
	result, err := scanTheme(row)
	if err != nil {
		return domain.PartyTheme{}, fmt.Errorf("repo.PartyThemeRepo.Update: %w", err)
	}
	return result, nil
}

func themeArgs(t domain.PartyTheme) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":              t.Name,
		"short_description": t.ShortDescription,
		"costume_ideas":     t.CostumeIdeas,
		"image_url":         t.ImageURL,
	}
}

func scanTheme(s scanner) (domain.PartyTheme, error) {
	var t domain.PartyTheme
	err := s.Scan(&t.ID, &t.Name, &t.ShortDescription, &t.CostumeIdeas, &t.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PartyTheme{}, domain.ErrNotFound
		}
		return domain.PartyTheme{}, err
	}
	return t, nil
}
