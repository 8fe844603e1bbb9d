package domain

import "time"

// EventType categorizes entries in a trip's event schedule.
type EventType string

const (
	EventParty  EventType = "party"
	EventShow   EventType = "show"
	EventDining EventType = "dining"
	EventLounge EventType = "lounge"
	EventFun    EventType = "fun"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventParty, EventShow, EventDining, EventLounge, EventFun:
		return true
	}
	return false
}

// Event is a scheduled happening on a trip: a party, show, dinner, and so on.
// Events belong to exactly one trip and are ordered by StartsAt. PartyThemeID
// is optional — only themed parties carry one — and performing talent is
// attached through the event_talent join table.
type Event struct {
	ID           int64     `json:"id"`
	TripID       int64     `json:"trip_id"`
	Title        string    `json:"title"`
	StartsAt     time.Time `json:"starts_at"`
	Type         EventType `json:"type"`
	Venue        string    `json:"venue,omitempty"`
	Deck         string    `json:"deck,omitempty"`
	PartyThemeID *int64    `json:"party_theme_id,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PartyTheme describes a recurring costume/party concept that themed events
// reference. Themes are shared across trips.
type PartyTheme struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	ShortDescription string `json:"short_description,omitempty"`
	CostumeIdeas     string `json:"costume_ideas,omitempty"`
	ImageURL         string `json:"image_url,omitempty"`
}

// EventTalent links a performing talent to an event.
// OrderIndex controls billing order within the event.
type EventTalent struct {
	EventID    int64  `json:"event_id"`
	TalentID   int64  `json:"talent_id"`
	Role       string `json:"role,omitempty"` // e.g. "headliner", "host"
	OrderIndex int    `json:"order_index"`
}
