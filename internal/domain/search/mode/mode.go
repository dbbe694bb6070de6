package mode

// Mode is the retrieval strategy.
type Mode string

// Search mode constants.
const (
	// Hybrid combines vector similarity and lexical text search.
	Hybrid Mode = "hybrid"
	Vector Mode = "vector"
	Text   Mode = "text"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Vector || m == Text
}

// UsesVector reports whether the mode requires the vector channel.
func (m Mode) UsesVector() bool {
	return m == Vector || m == Hybrid
}

// UsesText reports whether the mode requires the text channel.
func (m Mode) UsesText() bool {
	return m == Text || m == Hybrid
}
