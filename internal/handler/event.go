package handler

import (
	"net/http"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// ListTripEvents handles GET /api/trips/{id}/events.
func (s *Server) ListTripEvents(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "trip id must be numeric")
		return
	}

	events, err := s.events.ListByTripID(r.Context(), tripID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/trips/{id}/events.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "trip id must be numeric")
		return
	}

	var event domain.Event
	if err := decodeBody(r, &event); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	event.TripID = tripID

	created, err := s.events.Create(r.Context(), event)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetEvent handles GET /api/events/{id}.
func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "event id must be numeric")
		return
	}

	event, err := s.events.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PUT /api/events/{id}.
func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "event id must be numeric")
		return
	}

	var event domain.Event
	if err := decodeBody(r, &event); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	event.ID = id

	updated, err := s.events.Update(r.Context(), event)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteEvent handles DELETE /api/events/{id}.
func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "event id must be numeric")
		return
	}

	if err := s.events.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReplaceEventLineup handles PUT /api/events/{id}/lineup. The body is the
// complete new billing, in order.
func (s *Server) ReplaceEventLineup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "event id must be numeric")
		return
	}

	var links []domain.EventTalent
	if err := decodeBody(r, &links); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := s.events.ReplaceLineup(r.Context(), id, links); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
