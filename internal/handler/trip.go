package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// ListTrips handles GET /api/trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20,
// max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := paginationFromQuery(r)

	trips, err := s.trips.List(r.Context(), params)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data": trips,
		"pagination": map[string]int{
			"page":  params.Page,
			"limit": params.Limit,
		},
	})
}

// CreateTrip handles POST /api/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var trip domain.Trip
	if err := decodeBody(r, &trip); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetTrip handles GET /api/trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "trip id must be numeric")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PUT /api/trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "trip id must be numeric")
		return
	}

	var trip domain.Trip
	if err := decodeBody(r, &trip); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	trip.ID = id

	updated, err := s.trips.Update(r.Context(), trip)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /api/trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "trip id must be numeric")
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCompleteTrip handles GET /api/trips/{id}/complete.
// The path parameter is a numeric ID or a slug; all-digit strings are IDs.
// The response carries the view's build id as a strong ETag, so clients
// holding the current build get a 304 with no body.
func (s *Server) GetCompleteTrip(w http.ResponseWriter, r *http.Request) {
	ref := domain.ParseTripRef(chi.URLParam(r, "id"))

	view, err := s.agg.GetCompleteTrip(r.Context(), ref)
	if err != nil {
		respondError(w, err)
		return
	}

	etag := `"` + view.BuildID.String() + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// paginationFromQuery reads ?page= and ?limit=, falling back to defaults for
// anything missing or unparsable.
func paginationFromQuery(r *http.Request) domain.PaginationParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return domain.NewPaginationParams(page, limit)
}
