package query

import (
	"fmt"

	"github.com/matzipcloud/matzip/internal/domain"
	"github.com/matzipcloud/matzip/internal/domain/geo"
	"github.com/matzipcloud/matzip/internal/domain/search/mode"
)

// Query parameter limits.
const (
	// MaxQueryLength is the maximum allowed query text length.
	MaxQueryLength = 4096
	DefaultK       = 5
	MaxK           = 50
)

// GeoPoint holds the caller's position for location filtering.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// Query is a validated recommendation query.
type Query struct {
	text       string
	searchMode mode.Mode
	location   *GeoPoint
	budget     *float64
	k          int
}

// New validates and normalizes query parameters.
// Defaults: mode=hybrid, k=5. Latitude and longitude must be supplied
// together or not at all.
func New(text string, m mode.Mode, lat, lng, budget *float64, k int) (Query, error) {
	if text == "" {
		return Query{}, fmt.Errorf("%w: query text is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if m == "" {
		m = mode.Hybrid
	}
	if !m.IsValid() {
		return Query{}, fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidQuery, m)
	}
	if k < 0 {
		return Query{}, fmt.Errorf("%w: k must be positive", domain.ErrInvalidQuery)
	}
	if k == 0 {
		k = DefaultK
	}
	if k > MaxK {
		k = MaxK
	}

	var location *GeoPoint
	switch {
	case lat != nil && lng != nil:
		if !geo.ValidateCoordinates(*lat, *lng) {
			return Query{}, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidQuery)
		}
		location = &GeoPoint{Lat: *lat, Lng: *lng}
	case lat != nil || lng != nil:
		return Query{}, fmt.Errorf("%w: lat and lng must be provided together", domain.ErrInvalidQuery)
	}

	if budget != nil && *budget <= 0 {
		return Query{}, fmt.Errorf("%w: budget must be positive", domain.ErrInvalidQuery)
	}

	return Query{
		text:       text,
		searchMode: m,
		location:   location,
		budget:     budget,
		k:          k,
	}, nil
}

// Text returns the query text.
func (q *Query) Text() string { return q.text }

// Mode returns the retrieval strategy.
func (q *Query) Mode() mode.Mode { return q.searchMode }

// Location returns the caller's position (nil when not supplied).
func (q *Query) Location() *GeoPoint { return q.location }

// Budget returns the caller's budget (nil when not supplied).
func (q *Query) Budget() *float64 { return q.budget }

// K returns the number of results to return.
func (q *Query) K() int { return q.k }

// WithMode returns a copy of q with the retrieval strategy replaced.
// The chat flow uses it to force hybrid retrieval.
func (q Query) WithMode(m mode.Mode) Query {
	q.searchMode = m
	return q
}
