package domain

// ItineraryStop is one entry in a trip's day-by-day itinerary.
// Stops belong to exactly one trip and are ordered by (Day, OrderIndex);
// that order is part of the API contract — callers render stops without
// re-sorting.
type ItineraryStop struct {
	ID            int64  `json:"id"`
	TripID        int64  `json:"trip_id"`
	Day           int    `json:"day"` // 1-based day of the trip
	OrderIndex    int    `json:"order_index"`
	LocationID    *int64 `json:"location_id,omitempty"` // nil for sea days
	LocationName  string `json:"location_name"`         // denormalized display name, e.g. "Day at Sea"
	ArrivalTime   string `json:"arrival_time,omitempty"`   // "08:00", empty when not applicable
	DepartureTime string `json:"departure_time,omitempty"` // "17:00", empty when not applicable
	AllAboardTime string `json:"all_aboard_time,omitempty"`
}

// Location is a port, city, or private island referenced by itinerary stops.
// Locations are shared across trips and live independently of any one trip.
type Location struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}
