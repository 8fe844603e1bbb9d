package aggregate

import (
	"github.com/mfarrell/cruise-guides/backend/internal/batch"
	"github.com/mfarrell/cruise-guides/backend/internal/domain"
)

// Query text and scan mappings for every relation the aggregator batches.
// Each relation is loaded with one ANY($1) query for all parents; the ORDER
// BY clause is the stable secondary sort callers rely on for display order.

const tripColumns = `id, name, slug, start_date, end_date, status, ship_name, resort_name, hero_image_url, description, created_at, updated_at`

const (
	queryTripByID   = `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	queryTripBySlug = `SELECT ` + tripColumns + ` FROM trips WHERE slug = $1`
)

func scanTrip(s batch.Scanner) (domain.Trip, error) {
	var t domain.Trip
	err := s.Scan(&t.ID, &t.Name, &t.Slug, &t.StartDate, &t.EndDate, &t.Status,
		&t.ShipName, &t.ResortName, &t.HeroImageURL, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

var itineraryRelation = batch.Relation[int64, domain.ItineraryStop]{
	Name: "itinerary.by_trip_ids",
	SQL: `SELECT id, trip_id, day, order_index, location_id, location_name,
	             arrival_time, departure_time, all_aboard_time
	      FROM itinerary_stops
	      WHERE trip_id = ANY($1)
	      ORDER BY trip_id, day, order_index`,
	Key: func(s domain.ItineraryStop) int64 { return s.TripID },
	Scan: func(sc batch.Scanner) (domain.ItineraryStop, error) {
		var s domain.ItineraryStop
		err := sc.Scan(&s.ID, &s.TripID, &s.Day, &s.OrderIndex, &s.LocationID,
			&s.LocationName, &s.ArrivalTime, &s.DepartureTime, &s.AllAboardTime)
		return s, err
	},
}

var eventRelation = batch.Relation[int64, domain.Event]{
	Name: "events.by_trip_ids",
	SQL: `SELECT id, trip_id, title, starts_at, type, venue, deck, party_theme_id,
	             description, created_at, updated_at
	      FROM events
	      WHERE trip_id = ANY($1)
	      ORDER BY trip_id, starts_at, id`,
	Key: func(e domain.Event) int64 { return e.TripID },
	Scan: func(sc batch.Scanner) (domain.Event, error) {
		var e domain.Event
		err := sc.Scan(&e.ID, &e.TripID, &e.Title, &e.StartsAt, &e.Type, &e.Venue,
			&e.Deck, &e.PartyThemeID, &e.Description, &e.CreatedAt, &e.UpdatedAt)
		return e, err
	},
}

var eventTalentRelation = batch.Relation[int64, domain.EventTalent]{
	Name: "event_talent.by_event_ids",
	SQL: `SELECT event_id, talent_id, role, order_index
	      FROM event_talent
	      WHERE event_id = ANY($1)
	      ORDER BY event_id, order_index`,
	Key: func(l domain.EventTalent) int64 { return l.EventID },
	Scan: func(sc batch.Scanner) (domain.EventTalent, error) {
		var l domain.EventTalent
		err := sc.Scan(&l.EventID, &l.TalentID, &l.Role, &l.OrderIndex)
		return l, err
	},
}

var tripTalentRelation = batch.Relation[int64, domain.TripTalent]{
	Name: "trip_talent.by_trip_ids",
	SQL: `SELECT trip_id, talent_id, role, notes
	      FROM trip_talent
	      WHERE trip_id = ANY($1)
	      ORDER BY trip_id, talent_id`,
	Key: func(l domain.TripTalent) int64 { return l.TripID },
	Scan: func(sc batch.Scanner) (domain.TripTalent, error) {
		var l domain.TripTalent
		err := sc.Scan(&l.TripID, &l.TalentID, &l.Role, &l.Notes)
		return l, err
	},
}

var locationLookup = batch.Lookup[int64, domain.Location]{
	Name: "locations.by_ids",
	SQL:  `SELECT id, name, country, description, image_url FROM locations WHERE id = ANY($1)`,
	Key:  func(l domain.Location) int64 { return l.ID },
	Scan: func(sc batch.Scanner) (domain.Location, error) {
		var l domain.Location
		err := sc.Scan(&l.ID, &l.Name, &l.Country, &l.Description, &l.ImageURL)
		return l, err
	},
}

var partyThemeLookup = batch.Lookup[int64, domain.PartyTheme]{
	Name: "party_themes.by_ids",
	SQL:  `SELECT id, name, short_description, costume_ideas, image_url FROM party_themes WHERE id = ANY($1)`,
	Key:  func(p domain.PartyTheme) int64 { return p.ID },
	Scan: func(sc batch.Scanner) (domain.PartyTheme, error) {
		var p domain.PartyTheme
		err := sc.Scan(&p.ID, &p.Name, &p.ShortDescription, &p.CostumeIdeas, &p.ImageURL)
		return p, err
	},
}

var talentLookup = batch.Lookup[int64, domain.Talent]{
	Name: "talent.by_ids",
	SQL: `SELECT id, name, category_id, bio, known_for, profile_image_url, website,
	             social_links, created_at, updated_at
	      FROM talent WHERE id = ANY($1)`,
	Key: func(t domain.Talent) int64 { return t.ID },
	Scan: func(sc batch.Scanner) (domain.Talent, error) {
		var t domain.Talent
		err := sc.Scan(&t.ID, &t.Name, &t.CategoryID, &t.Bio, &t.KnownFor,
			&t.ProfileImageURL, &t.Website, &t.SocialLinks, &t.CreatedAt, &t.UpdatedAt)
		return t, err
	},
}

var talentCategoryLookup = batch.Lookup[int64, domain.TalentCategory]{
	Name: "talent_categories.by_ids",
	SQL:  `SELECT id, category FROM talent_categories WHERE id = ANY($1)`,
	Key:  func(c domain.TalentCategory) int64 { return c.ID },
	Scan: func(sc batch.Scanner) (domain.TalentCategory, error) {
		var c domain.TalentCategory
		err := sc.Scan(&c.ID, &c.Category)
		return c, err
	},
}
