package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mfarrell/cruise-guides/backend/internal/db"
	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// ItineraryRepo defines the persistence operations for a trip's itinerary.
// The itinerary is always written as a whole: callers submit the full ordered
// list of stops and the previous list is discarded.
type ItineraryRepo interface {
	// ListByTripID returns the trip's stops ordered by day then order_index.
	ListByTripID(ctx context.Context, tripID int64) ([]domain.ItineraryStop, error)

	// Replace deletes the trip's existing stops and inserts the given ones,
	// returning the persisted records in submission order. It issues multiple
	// statements, so it is atomic only when the executor is a transaction;
	// the service layer wraps it in db.Manager.Transaction.
	Replace(ctx context.Context, tripID int64, stops []domain.ItineraryStop) ([]domain.ItineraryStop, error)
}

const stopColumns = `id, trip_id, day, order_index, location_id, location_name,
	arrival_time, departure_time, all_aboard_time`

type pgItineraryRepo struct {
	db db.Executor
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided executor.
// Replace is atomic only if the executor is already a transaction; production
// code should use NewTxItineraryRepo instead.
func NewItineraryRepo(db db.Executor) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

// NewTxItineraryRepo constructs an ItineraryRepo whose Replace runs inside a
// retrying transaction on the manager. Reads go straight to the pool.
func NewTxItineraryRepo(m *db.Manager) ItineraryRepo {
	return &txItineraryRepo{m: m, pgItineraryRepo: pgItineraryRepo{db: m}}
}

type txItineraryRepo struct {
	m *db.Manager
	pgItineraryRepo
}

func (r *txItineraryRepo) Replace(ctx context.Context, tripID int64, stops []domain.ItineraryStop) ([]domain.ItineraryStop, error) {
	var out []domain.ItineraryStop
	err := r.m.Transaction(ctx, func(tx db.Executor) error {
		var err error
		out, err = (&pgItineraryRepo{db: tx}).Replace(ctx, tripID, stops)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *pgItineraryRepo) ListByTripID(ctx context.Context, tripID int64) ([]domain.ItineraryStop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM itinerary_stops
		WHERE trip_id = @trip_id
		ORDER BY day, order_index`

	rows, err := r.db.Query(ctx, "itinerary.list_by_trip", q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var stops []domain.ItineraryStop
	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.ListByTripID: scan: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTripID: rows: %w", err)
	}

	return stops, nil
}

func (r *pgItineraryRepo) Replace(ctx context.Context, tripID int64, stops []domain.ItineraryStop) ([]domain.ItineraryStop, error) {
	const del = `DELETE FROM itinerary_stops WHERE trip_id = @trip_id`
	if _, err := r.db.Exec(ctx, "itinerary.clear", del, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.Replace: clear: %w", err)
	}

	const ins = `
		INSERT INTO itinerary_stops (trip_id, day, order_index, location_id,
		                             location_name, arrival_time, departure_time,
		                             all_aboard_time)
		VALUES (@trip_id, @day, @order_index, @location_id, @location_name,
		        @arrival_time, @departure_time, @all_aboard_time)
		RETURNING ` + stopColumns

	out := make([]domain.ItineraryStop, 0, len(stops))
	for _, s := range stops {
		row := r.db.QueryRow(ctx, "itinerary.insert", ins, pgx.NamedArgs{
			"trip_id":         tripID,
			"day":             s.Day,
			"order_index":     s.OrderIndex,
			"location_id":     s.LocationID,
			"location_name":   s.LocationName,
			"arrival_time":    s.ArrivalTime,
			"departure_time":  s.DepartureTime,
			"all_aboard_time": s.AllAboardTime,
		})
		saved, err := scanStop(row)
		if err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.Replace: insert: %w", err)
		}
		out = append(out, saved)
	}

	return out, nil
}

func scanStop(s scanner) (domain.ItineraryStop, error) {
	var st domain.ItineraryStop
	err := s.Scan(&st.ID, &st.TripID, &st.Day, &st.OrderIndex, &st.LocationID,
		&st.LocationName, &st.ArrivalTime, &st.DepartureTime, &st.AllAboardTime)
	if err != nil {
		return domain.ItineraryStop{}, err
	}
	return st, nil
}
