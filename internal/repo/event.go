package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mfarrell/cruise-guides/backend/internal/db"
	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// EventRepo defines the persistence operations for scheduled events and their
// performer lineups.
type EventRepo interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)

	// GetByID returns domain.ErrNotFound if no event with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Event, error)

	// ListByTripID returns the trip's events in chronological order.
	ListByTripID(ctx context.Context, tripID int64) ([]domain.Event, error)

	// Update returns domain.ErrNotFound if the event does not exist.
	Update(ctx context.Context, event domain.Event) (domain.Event, error)

	// Delete removes an event and, via cascade, its lineup rows.
	Delete(ctx context.Context, id int64) error

	// ReplaceLineup rewrites the event's performer billing. Like
	// ItineraryRepo.Replace it is atomic only inside a transaction.
	ReplaceLineup(ctx context.Context, eventID int64, links []domain.EventTalent) error
}

const eventColumns = `id, trip_id, title, starts_at, type, venue, deck,
	party_theme_id, description, created_at, updated_at`

type pgEventRepo struct {
	db db.Executor
}

// NewEventRepo constructs an EventRepo backed by the provided executor.
// ReplaceLineup is atomic only if the executor is already a transaction;
// production code should use NewTxEventRepo instead.
func NewEventRepo(db db.Executor) EventRepo {
	return &pgEventRepo{db: db}
}

// NewTxEventRepo constructs an EventRepo whose ReplaceLineup runs inside a
// retrying transaction on the manager. Everything else goes straight to the
// pool.
func NewTxEventRepo(m *db.Manager) EventRepo {
	return &txEventRepo{m: m, pgEventRepo: pgEventRepo{db: m}}
}

type txEventRepo struct {
	m *db.Manager
	pgEventRepo
}

func (r *txEventRepo) ReplaceLineup(ctx context.Context, eventID int64, links []domain.EventTalent) error {
	return r.m.Transaction(ctx, func(tx db.Executor) error {
		return (&pgEventRepo{db: tx}).ReplaceLineup(ctx, eventID, links)
	})
}

func (r *pgEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	const q = `
		INSERT INTO events (trip_id, title, starts_at, type, venue, deck,
		                    party_theme_id, description)
		VALUES (@trip_id, @title, @starts_at, @type, @venue, @deck,
		        @party_theme_id, @description)
		RETURNING ` + eventColumns

	row := r.db.QueryRow(ctx, "events.create", q, eventArgs(event))
	result, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) GetByID(ctx context.Context, id int64) (domain.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = @id`

	row := r.db.QueryRow(ctx, "events.get_by_id", q, pgx.NamedArgs{"id": id})
	result, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) ListByTripID(ctx context.Context, tripID int64) ([]domain.Event, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM events
		WHERE trip_id = @trip_id
		ORDER BY starts_at, id`

	rows, err := r.db.Query(ctx, "events.list_by_trip", q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EventRepo.ListByTripID: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListByTripID: rows: %w", err)
	}

	return events, nil
}

func (r *pgEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	const q = `
		UPDATE events
		SET title          = @title,
		    starts_at      = @starts_at,
		    type           = @type,
		    venue          = @venue,
		    deck           = @deck,
		    party_theme_id = @party_theme_id,
		    description    = @description,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + eventColumns

	args := eventArgs(event)
	args["id"] = event.ID
	delete(args, "trip_id") // events never move between trips

	row := r.db.QueryRow(ctx, "events.update", q, args)
	result, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM events WHERE id = @id`

	tag, err := r.db.Exec(ctx, "events.delete", q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.EventRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EventRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgEventRepo) ReplaceLineup(ctx context.Context, eventID int64, links []domain.EventTalent) error {
	const del = `DELETE FROM event_talent WHERE event_id = @event_id`
	if _, err := r.db.Exec(ctx, "event_talent.clear", del, pgx.NamedArgs{"event_id": eventID}); err != nil {
		return fmt.Errorf("repo.EventRepo.ReplaceLineup: clear: %w", err)
	}

	const ins = `
		INSERT INTO event_talent (event_id, talent_id, role, order_index)
		VALUES (@event_id, @talent_id, @role, @order_index)`

	for _, l := range links {
		_, err := r.db.Exec(ctx, "event_talent.insert", ins, pgx.NamedArgs{
			"event_id":    eventID,
			"talent_id":   l.TalentID,
			"role":        l.Role,
			"order_index": l.OrderIndex,
		})
		if err != nil {
			return fmt.Errorf("repo.EventRepo.ReplaceLineup: insert: %w", err)
		}
	}

	return nil
}

func eventArgs(e domain.Event) pgx.NamedArgs {
	return pgx.NamedArgs{
		"trip_id":        e.TripID,
		"title":          e.Title,
		"starts_at":      e.StartsAt,
		"type":           e.Type,
		"venue":          e.Venue,
		"deck":           e.Deck,
		"party_theme_id": e.PartyThemeID,
		"description":    e.Description,
	}
}

func scanEvent(s scanner) (domain.Event, error) {
	var e domain.Event
	err := s.Scan(&e.ID, &e.TripID, &e.Title, &e.StartsAt, &e.Type, &e.Venue,
		&e.Deck, &e.PartyThemeID, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, err
	}
	return e, nil
}
