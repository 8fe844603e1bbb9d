package domain

import "strconv"

// TripRef identifies a trip by either its numeric ID or its slug.
// Exactly one of the two fields is set. Both forms address the same cached
// aggregate, which is why the cache keeps one entry per form and invalidates
// them together.
type TripRef struct {
	ID   int64
	Slug string
}

// TripRefID returns a TripRef addressing a trip by numeric ID.
func TripRefID(id int64) TripRef { return TripRef{ID: id} }

// TripRefSlug returns a TripRef addressing a trip by slug.
func TripRefSlug(slug string) TripRef { return TripRef{Slug: slug} }

// ParseTripRef interprets a URL path segment as a trip reference.
// An all-digit segment is treated as a numeric ID, anything else as a slug.
// Slugs are guaranteed non-numeric by validation at creation time, so the
// two namespaces cannot collide.
func ParseTripRef(s string) TripRef {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return TripRefID(id)
	}
	return TripRefSlug(s)
}

// IsID reports whether the reference addresses a trip by numeric ID.
func (r TripRef) IsID() bool { return r.Slug == "" }

// CacheKey returns the cache key form for this reference: "id:<n>" or
// "slug:<s>". Key forms are stable — mutation paths rebuild them from the
// trip's ID and slug to invalidate both.
func (r TripRef) CacheKey() string {
	if r.IsID() {
		return "id:" + strconv.FormatInt(r.ID, 10)
	}
	return "slug:" + r.Slug
}
