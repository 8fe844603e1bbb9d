// Package domain contains the core data types for the Cruise Guides backend.
// This package has no dependencies on the database or HTTP layers and is
// imported by every other internal package (db, batch, cache, aggregate,
// repo, service, handler).
package domain

import "time"

// TripStatus is the publication state of a trip guide.
// Transitions are enforced by the service layer: draft and published can move
// to each other, published can be archived, and archived is terminal.
type TripStatus string

const (
	StatusDraft     TripStatus = "draft"
	StatusPublished TripStatus = "published"
	StatusArchived  TripStatus = "archived"
)

// Valid reports whether s is one of the recognized trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether a trip may move from s to next.
// Setting the same status again is always allowed (idempotent updates).
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusDraft:
		return next == StatusPublished
	case StatusPublished:
		return next == StatusDraft || next == StatusArchived
	}
	return false
}

// Trip is the top-level aggregate root: one sailing or resort stay.
// Slug is unique across all trips and is the public identifier used in URLs;
// the numeric ID is the internal identifier. Both address the same cached
// aggregate, so both must be invalidated together on mutation.
type Trip struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	Status       TripStatus `json:"status"`
	ShipName     string     `json:"ship_name,omitempty"`
	ResortName   string     `json:"resort_name,omitempty"` // set instead of ShipName for land-based trips
	HeroImageURL string     `json:"hero_image_url,omitempty"`
	Description  string     `json:"description,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
