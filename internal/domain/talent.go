package domain

import "time"

// Talent is an entertainer, host, or speaker. Talent exists independently of
// any trip and is associated with trips and events through join tables.
type Talent struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	CategoryID      int64             `json:"category_id"`
	Bio             string            `json:"bio,omitempty"`
	KnownFor        string            `json:"known_for,omitempty"`
	ProfileImageURL string            `json:"profile_image_url,omitempty"`
	Website         string            `json:"website,omitempty"`
	SocialLinks     map[string]string `json:"social_links,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TalentCategory is a coarse grouping such as "Drag", "Comedy", or "DJ".
type TalentCategory struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
}

// TripTalent links a talent to a trip's lineup, independent of any specific
// event appearance.
type TripTalent struct {
	TripID   int64  `json:"trip_id"`
	TalentID int64  `json:"talent_id"`
	Role     string `json:"role,omitempty"`
	Notes    string `json:"notes,omitempty"`
}
