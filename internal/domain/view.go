package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItineraryStopView is an itinerary stop enriched with its location, when one
// is referenced. Location stays nil for stops without a location reference
// (sea days) — the stop itself is never dropped, so itinerary cardinality is
// preserved.
type ItineraryStopView struct {
	ItineraryStop
	Location *Location `json:"location,omitempty"`
}

// EventView is an event enriched with its optional party theme and the talent
// performing at it, in billing order.
type EventView struct {
	Event
	PartyTheme *PartyTheme  `json:"party_theme,omitempty"`
	Performers []TalentView `json:"performers,omitempty"`
}

// TalentView is a talent enriched with its category name.
type TalentView struct {
	Talent
	Category string `json:"category"`
}

// CompleteTripView is the assembled aggregate for one trip: the trip row plus
// its full itinerary, event schedule, and talent lineup, each with nested
// references resolved. It is derived on demand, cached under both the trip's
// ID and slug key forms, and discarded wholesale on invalidation — never
// persisted and never partially updated.
//
// Views handed to callers are snapshots: mutating one does not change what
// the cache holds, and callers must not rely on receiving the same instance
// across calls.
type CompleteTripView struct {
	Trip      Trip                `json:"trip"`
	Itinerary []ItineraryStopView `json:"itinerary"`
	Events    []EventView         `json:"events"`
	Talent    []TalentView        `json:"talent"`

	// BuildID is assigned once per assembly and doubles as the HTTP ETag for
	// the aggregate endpoint: two responses with the same BuildID came from
	// the same cached build.
	BuildID     uuid.UUID `json:"build_id"`
	AssembledAt time.Time `json:"assembled_at"`
}

// Clone returns a copy with fresh top-level and per-event slices, so a caller
// mutating the returned view cannot reach back into the cached one. Leaf
// structs are copied by value; pointed-to themes and locations are shared but
// never mutated by convention.
func (v *CompleteTripView) Clone() *CompleteTripView {
	if v == nil {
		return nil
	}
	out := *v
	out.Itinerary = append([]ItineraryStopView(nil), v.Itinerary...)
	out.Talent = append([]TalentView(nil), v.Talent...)
	out.Events = make([]EventView, len(v.Events))
	for i, e := range v.Events {
		e.Performers = append([]TalentView(nil), e.Performers...)
		out.Events[i] = e
	}
	return &out
}
