package handler

import (
	"net/http"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// GetItinerary handles GET /api/trips/{id}/itinerary.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "trip id must be numeric")
		return
	}

	stops, err := s.itinerary.Get(r.Context(), tripID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stops)
}

// ReplaceItinerary handles PUT /api/trips/{id}/itinerary. The body is the
// complete new stop list; the previous itinerary is discarded.
func (s *Server) ReplaceItinerary(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "trip id must be numeric")
		return
	}

	var stops []domain.ItineraryStop
	if err := decodeBody(r, &stops); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	saved, err := s.itinerary.Replace(r.Context(), tripID, stops)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, saved)
}
