package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// errorResponse is the JSON envelope for all error replies.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON writes v as JSON with the given status. Encoding failures are
// unrecoverable at this point (headers already sent), so they are ignored.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps domain sentinel errors to HTTP statuses: ErrNotFound to
// 404, ErrValidation to 422, ErrConflict to 409, anything else to 500. The
// 500 body is generic on purpose; the real error belongs in the log, not the
// response.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{
			Error: errorDetail{Code: "not_found", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrValidation):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrConflict):
		respondJSON(w, http.StatusConflict, errorResponse{
			Error: errorDetail{Code: "conflict", Message: unwrapMessage(err)},
		})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal_error", Message: "internal server error"},
		})
	}
}

// respondBadRequest rejects a request before it reaches the service layer
// (e.g. malformed body or path parameter).
func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{
		Error: errorDetail{Code: "bad_request", Message: message},
	})
}

// decodeBody parses the request body into v, rejecting unknown fields so
// typos surface as 400s instead of silently dropped data.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pathID parses the named chi URL parameter as an int64 ID.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "repo.TripRepo.Create: slug "x": conflict" keeps only the tail
// the client can act on.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	// Strip "package.Type.Method: " prefixes added by the lower layers.
	for {
		i := strings.Index(msg, ": ")
		if i < 0 || !strings.Contains(msg[:i], ".") {
			break
		}
		msg = msg[i+2:]
	}
	return msg
}
