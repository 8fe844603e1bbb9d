package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mfarrell/cruise-guides/backend/internal/db"
	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// TripRepo defines the persistence operations for trips. The service layer
// depends on this interface, not the concrete Postgres implementation, which
// allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated). A slug
	// collision returns domain.ErrConflict.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its numeric primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Trip, error)

	// GetBySlug retrieves a single trip by its slug.
	// Returns domain.ErrNotFound if no trip with that slug exists.
	GetBySlug(ctx context.Context, slug string) (domain.Trip, error)

	// List returns a page of trips ordered by start_date descending.
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip and returns
	// the updated record. Returns domain.ErrNotFound if the trip does not
	// exist and domain.ErrConflict if the new slug is taken.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Related itinerary stops, events, and
	// lineup rows go with it via ON DELETE CASCADE. Returns
	// domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
}

const tripColumns = `id, name, slug, start_date, end_date, status, ship_name,
	resort_name, hero_image_url, description, created_at, updated_at`

type pgTripRepo struct {
	db db.Executor
}

// NewTripRepo constructs a TripRepo backed by the provided executor.
// In production pass the *db.Manager; in tests pass a transaction executor
// for rollback isolation.
func NewTripRepo(db db.Executor) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (name, slug, start_date, end_date, status, ship_name,
		                   resort_name, hero_image_url, description)
		VALUES (@name, @slug, @start_date, @end_date, @status, @ship_name,
		        @resort_name, @hero_image_url, @description)
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, "trips.create", q, tripArgs(trip))
	result, err := scanTripRow(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: slug %q: %w", trip.Slug, domain.ErrConflict)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, "trips.get_by_id", q, pgx.NamedArgs{"id": id})
	result, err := scanTripRow(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetBySlug(ctx context.Context, slug string) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE slug = @slug`

	row := r.db.QueryRow(ctx, "trips.get_by_slug", q, pgx.NamedArgs{"slug": slug})
	result, err := scanTripRow(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetBySlug: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		ORDER BY start_date DESC, id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, "trips.list", q, pgx.NamedArgs{
		"limit":  p.Limit,
		"offset": p.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTripRow(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET name           = @name,
		    slug           = @slug,
		    start_date     = @start_date,
		    end_date       = @end_date,
		    status         = @status,
		    ship_name      = @ship_name,
		    resort_name    = @resort_name,
		    hero_image_url = @hero_image_url,
		    description    = @description,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := tripArgs(trip)
	args["id"] = trip.ID

	row := r.db.QueryRow(ctx, "trips.update", q, args)
	result, err := scanTripRow(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: slug %q: %w", trip.Slug, domain.ErrConflict)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, "trips.delete", q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func tripArgs(t domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":           t.Name,
		"slug":           t.Slug,
		"start_date":     t.StartDate,
		"end_date":       t.EndDate,
		"status":         t.Status,
		"ship_name":      t.ShipName,
		"resort_name":    t.ResortName,
		"hero_image_url": t.HeroImageURL,
		"description":    t.Description,
	}
}

// scanTripRow maps a single database row into a domain.Trip.
func scanTripRow(s scanner) (domain.Trip, error) {
	var t domain.Trip
	err := s.Scan(&t.ID, &t.Name, &t.Slug, &t.StartDate, &t.EndDate, &t.Status,
		&t.ShipName, &t.ResortName, &t.HeroImageURL, &t.Description,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return t, nil
}
