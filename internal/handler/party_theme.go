package handler

import (
	"net/http"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// ListPartyThemes handles GET /api/party-themes.
func (s *Server) ListPartyThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := s.themes.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, themes)
}

// CreatePartyTheme handles POST /api/party-themes.
func (s *Server) CreatePartyTheme(w http.ResponseWriter, r *http.Request) {
	var theme domain.PartyTheme
	if err := decodeBody(r, &theme); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	created, err := s.themes.Create(r.Context(), theme)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetPartyTheme handles GET /api/party-themes/{id}.
func (s *Server) GetPartyTheme(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "party theme id must be numeric")
		return
	}

	theme, err := s.themes.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, theme)
}

// UpdatePartyTheme handles PUT /api/party-themes/{id}.
func (s *Server) UpdatePartyTheme(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "party theme id must be numeric")
		return
	}

	var theme domain.PartyTheme
	if err := decodeBody(r, &theme); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	theme.ID = id

	updated, err := s.themes.Update(r.Context(), theme)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
