package venue

// Point is a geographic coordinate pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Candidate is a single venue produced by a retrieval channel.
// It is immutable once scored: the With* methods return copies, and the
// fused score is assigned exactly once by the fusion ranker.
type Candidate struct {
	id          string
	name        string
	category    string
	address     string
	description string
	menu        string
	location    *Point
	price       *float64
	rating      float64

	vectorScore *float64
	textScore   *float64
	fusedScore  float64
}

// New creates a candidate without retrieval scores.
func New(id, name, category string) Candidate {
	return Candidate{id: id, name: name, category: category}
}

// ID returns the venue identifier.
func (c *Candidate) ID() string { return c.id }

// Name returns the venue name.
func (c *Candidate) Name() string { return c.name }

// Category returns the venue category.
func (c *Candidate) Category() string { return c.category }

// Address returns the human-readable address.
func (c *Candidate) Address() string { return c.address }

// Description returns the venue description.
func (c *Candidate) Description() string { return c.description }

// Menu returns the menu summary.
func (c *Candidate) Menu() string { return c.menu }

// Location returns the venue coordinates, if known.
func (c *Candidate) Location() (Point, bool) {
	if c.location == nil {
		return Point{}, false
	}
	return *c.location, true
}

// Price returns the typical price per person, if known.
func (c *Candidate) Price() (float64, bool) {
	if c.price == nil {
		return 0, false
	}
	return *c.price, true
}

// Rating returns the venue rating.
func (c *Candidate) Rating() float64 { return c.rating }

// VectorScore returns the vector similarity score, if this candidate
// came from the vector channel.
func (c *Candidate) VectorScore() (float64, bool) {
	if c.vectorScore == nil {
		return 0, false
	}
	return *c.vectorScore, true
}

// TextScore returns the lexical relevance score, if this candidate came
// from the text channel.
func (c *Candidate) TextScore() (float64, bool) {
	if c.textScore == nil {
		return 0, false
	}
	return *c.textScore, true
}

// FusedScore returns the combined score assigned by the fusion ranker.
func (c *Candidate) FusedScore() float64 { return c.fusedScore }

// WithDetails returns a copy carrying descriptive fields.
func (c Candidate) WithDetails(address, description, menu string, rating float64) Candidate {
	c.address = address
	c.description = description
	c.menu = menu
	c.rating = rating
	return c
}

// WithLocation returns a copy carrying coordinates.
func (c Candidate) WithLocation(lat, lng float64) Candidate {
	c.location = &Point{Lat: lat, Lng: lng}
	return c
}

// WithPrice returns a copy carrying a price.
func (c Candidate) WithPrice(price float64) Candidate {
	c.price = &price
	return c
}

// WithVectorScore returns a copy carrying a vector similarity score.
func (c Candidate) WithVectorScore(score float64) Candidate {
	c.vectorScore = &score
	return c
}

// WithTextScore returns a copy carrying a lexical relevance score.
func (c Candidate) WithTextScore(score float64) Candidate {
	c.textScore = &score
	return c
}

// WithFusedScore returns a copy carrying the fused score.
func (c Candidate) WithFusedScore(score float64) Candidate {
	c.fusedScore = score
	return c
}

// MergeScores returns a copy of c carrying any retrieval score present on
// other but absent on c. Descriptive fields stay as-is: both channels read
// the same document, so the first-seen copy is authoritative.
func (c Candidate) MergeScores(other Candidate) Candidate {
	if c.vectorScore == nil && other.vectorScore != nil {
		s := *other.vectorScore
		c.vectorScore = &s
	}
	if c.textScore == nil && other.textScore != nil {
		s := *other.textScore
		c.textScore = &s
	}
	return c
}
