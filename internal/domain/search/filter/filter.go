package filter

import (
	"github.com/matzipcloud/matzip/internal/domain/geo"
	"github.com/matzipcloud/matzip/internal/domain/search/query"
	"github.com/matzipcloud/matzip/internal/domain/venue"
)

// Default constraint values, overridable via config.
const (
	// DefaultRadiusMeters is the location filter radius (5 km).
	DefaultRadiusMeters = 5_000.0
	// DefaultBudgetTolerance is the accepted price deviation around the
	// requested budget (±30%).
	DefaultBudgetTolerance = 0.30
)

// Filter applies geo and budget constraints to retrieved candidates.
type Filter struct {
	radiusMeters    float64
	budgetTolerance float64
}

// New creates a filter. Non-positive arguments fall back to defaults.
func New(radiusMeters, budgetTolerance float64) Filter {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	if budgetTolerance <= 0 {
		budgetTolerance = DefaultBudgetTolerance
	}
	return Filter{radiusMeters: radiusMeters, budgetTolerance: budgetTolerance}
}

// RadiusMeters returns the configured location radius.
func (f Filter) RadiusMeters() float64 { return f.radiusMeters }

// BudgetTolerance returns the configured budget tolerance.
func (f Filter) BudgetTolerance() float64 { return f.budgetTolerance }

// Passes reports whether the candidate satisfies both the location and
// the budget constraint of the query. A constraint the query does not
// carry is vacuously satisfied. A candidate missing the field an active
// constraint needs (no location, no price) fails that constraint rather
// than erroring: incomplete index data is silently excluded.
func (f Filter) Passes(c *venue.Candidate, q *query.Query) bool {
	return f.passesLocation(c, q) && f.passesBudget(c, q)
}

func (f Filter) passesLocation(c *venue.Candidate, q *query.Query) bool {
	loc := q.Location()
	if loc == nil {
		return true
	}
	p, ok := c.Location()
	if !ok {
		return false
	}
	return geo.Haversine(loc.Lat, loc.Lng, p.Lat, p.Lng) <= f.radiusMeters
}

func (f Filter) passesBudget(c *venue.Candidate, q *query.Query) bool {
	budget := q.Budget()
	if budget == nil {
		return true
	}
	price, ok := c.Price()
	if !ok {
		return false
	}
	lower := *budget * (1 - f.budgetTolerance)
	upper := *budget * (1 + f.budgetTolerance)
	return price >= lower && price <= upper
}
