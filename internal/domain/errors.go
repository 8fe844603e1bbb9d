package domain

import "errors"

// ErrNotFound is returned by repo, aggregate, and service functions when the
// requested resource does not exist in the database. A missing trip is an
// expected outcome, not an exceptional one — absence is never cached, so a
// trip created moments later is visible immediately.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date,
// disallowed status transition).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write collides with existing state, such as
// creating a trip whose slug is already taken.
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("conflict")
