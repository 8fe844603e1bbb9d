package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mfarrell/cruise-guides/backend/internal/db"
	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// TalentRepo defines the persistence operations for talents and their
// categories. Talents are shared across trips, so callers mutating them must
// assume any number of cached trip views just went stale.
type TalentRepo interface {
	Create(ctx context.Context, talent domain.Talent) (domain.Talent, error)

	// GetByID returns domain.ErrNotFound if no talent with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Talent, error)

	// List returns a page of talents ordered by name.
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Talent, error)

	// Update returns domain.ErrNotFound if the talent does not exist.
	Update(ctx context.Context, talent domain.Talent) (domain.Talent, error)

	// Delete removes a talent and, via cascade, its event and trip links.
	Delete(ctx context.Context, id int64) error

	// ListCategories returns all talent categories ordered by name.
	ListCategories(ctx context.Context) ([]domain.TalentCategory, error)
}

const talentColumns = `id, name, category_id, bio, known_for,
	profile_image_url, website, social_links, created_at, updated_at`

type pgTalentRepo struct {
	db db.Executor
}

// NewTalentRepo constructs a TalentRepo backed by the provided executor.
func NewTalentRepo(db db.Executor) TalentRepo {
	return &pgTalentRepo{db: db}
}

func (r *pgTalentRepo) Create(ctx context.Context, talent domain.Talent) (domain.Talent, error) {
	const q = `
		INSERT INTO talent (name, category_id, bio, known_for,
		                    profile_image_url, website, social_links)
		VALUES (@name, @category_id, @bio, @known_for,
		        @profile_image_url, @website, @social_links)
		RETURNING ` + talentColumns

	row := r.db.QueryRow(ctx, "talent.create", q, talentArgs(talent))
	result, err := scanTalent(row)
	if err != nil {
		return domain.Talent{}, fmt.Errorf("repo.TalentRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTalentRepo) GetByID(ctx context.Context, id int64) (domain.Talent, error) {
	const q = `SELECT ` + talentColumns + ` FROM talent WHERE id = @id`

	row := r.db.QueryRow(ctx, "talent.get_by_id", q, pgx.NamedArgs{"id": id})
	result, err := scanTalent(row)
	if err != nil {
		return domain.Talent{}, fmt.Errorf("repo.TalentRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTalentRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Talent, error) {
	const q = `
		SELECT ` + talentColumns + `
		FROM talent
		ORDER BY name, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, "talent.list", q, pgx.NamedArgs{
		"limit":  p.Limit,
		"offset": p.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("repo.TalentRepo.List: %w", err)
	}
	defer rows.Close()

	var talents []domain.Talent
	for rows.Next() {
		t, err := scanTalent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TalentRepo.List: scan: %w", err)
		}
		talents = append(talents, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TalentRepo.List: rows: %w", err)
	}

	return talents, nil
}

func (r *pgTalentRepo) Update(ctx context.Context, talent domain.Talent) (domain.Talent, error) {
	const q = `
		UPDATE talent
		SET name              = @name,
		    category_id       = @category_id,
		    bio               = @bio,
		    known_for         = @known_for,
		    profile_image_url = @profile_image_url,
		    website           = @website,
		    social_links      = @social_links,
		    updated_at        = now()
		WHERE id = @id
		RETURNING ` + talentColumns

	args := talentArgs(talent)
	args["id"] = talent.ID

	row := r.db.QueryRow(ctx, "talent.update", q, args)
	result, err := scanTalent(row)
	if err != nil {
		return domain.Talent{}, fmt.Errorf("repo.TalentRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTalentRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM talent WHERE id = @id`

	tag, err := r.db.Exec(ctx, "talent.delete", q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TalentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TalentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTalentRepo) ListCategories(ctx context.Context) ([]domain.TalentCategory, error) {
	const q = `SELECT id, category FROM talent_categories ORDER BY category`

	rows, err := r.db.Query(ctx, "talent_categories.list", q)
	if err != nil {
		return nil, fmt.Errorf("repo.TalentRepo.ListCategories: %w", err)
	}
	defer rows.Close()

	var categories []domain.TalentCategory
	for rows.Next() {
		var c domain.TalentCategory
		if err := rows.Scan(&c.ID, &c.Category); err != nil {
			return nil, fmt.Errorf("repo.TalentRepo.ListCategories: scan: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TalentRepo.ListCategories: rows: %w", err)
	}

	return categories, nil
}

func talentArgs(t domain.Talent) pgx.NamedArgs {
	links := t.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	return pgx.NamedArgs{
		"name":              t.Name,
		"category_id":       t.CategoryID,
		"bio":               t.Bio,
		"known_for":         t.KnownFor,
		"profile_image_url": t.ProfileImageURL,
		"website":           t.Website,
		"social_links":      links,
	}
}

func scanTalent(s scanner) (domain.Talent, error) {
	var t domain.Talent
	err := s.Scan(&t.ID, &t.Name, &t.CategoryID, &t.Bio, &t.KnownFor,
		&t.ProfileImageURL, &t.Website, &t.SocialLinks, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Talent{}, domain.ErrNotFound
		}
		return domain.Talent{}, err
	}
	return t, nil
}
