package handler

import (
	"net/http"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// ListTalent handles GET /api/talent.
func (s *Server) ListTalent(w http.ResponseWriter, r *http.Request) {
	params := paginationFromQuery(r)

	talents, err := s.talent.List(r.Context(), params)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data": talents,
		"pagination": map[string]int{
			"page":  params.Page,
			"limit": params.Limit,
		},
	})
}

// CreateTalent handles POST /api/talent.
func (s *Server) CreateTalent(w http.ResponseWriter, r *http.Request) {
	var talent domain.Talent
	if err := decodeBody(r, &talent); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	created, err := s.talent.Create(r.Context(), talent)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetTalent handles GET /api/talent/{id}.
func (s *Server) GetTalent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "talent id must be numeric")
		return
	}

	talent, err := s.talent.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, talent)
}

// UpdateTalent handles PUT /api/talent/{id}.
func (s *Server) UpdateTalent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "talent id must be numeric")
		return
	}

	var talent domain.Talent
	if err := decodeBody(r, &talent); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	talent.ID = id

	updated, err := s.talent.Update(r.Context(), talent)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteTalent handles DELETE /api/talent/{id}.
func (s *Server) DeleteTalent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "talent id must be numeric")
		return
	}

	if err := s.talent.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTalentCategories handles GET /api/talent/categories.
func (s *Server) ListTalentCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.talent.ListCategories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, categories)
}
