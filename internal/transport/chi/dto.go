package chi

import (
	"github.com/matzipcloud/matzip/internal/domain/search/query"
	"github.com/matzipcloud/matzip/internal/domain/venue"
)

// errorCode identifies a failure class in error responses.
type errorCode string

const (
	codeBadRequest              errorCode = "bad_request"
	codeValidationFailed        errorCode = "validation_failed"
	codeRetrievalFailed         errorCode = "retrieval_failed"
	codeIndexUnavailable        errorCode = "index_unavailable"
	codeEmbeddingProviderError  errorCode = "embedding_provider_error"
	codeGenerationProviderError errorCode = "generation_provider_error"
	codeGenerationFailed        errorCode = "generation_failed"
	codeInternalError           errorCode = "internal_error"
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// chatRequest is the POST /api/v1/chat body.
type chatRequest struct {
	Query  string   `json:"query" validate:"required,max=4096"`
	Lat    *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng    *float64 `json:"lng" validate:"omitempty,longitude"`
	Budget *float64 `json:"budget" validate:"omitempty,gt=0"`
	K      int      `json:"k" validate:"omitempty,min=1,max=50"`
}

// chatResponse is the POST /api/v1/chat response body.
type chatResponse struct {
	Answer        string       `json:"answer"`
	SearchResults []resultItem `json:"search_results"`
	Metadata      metadata     `json:"metadata"`
}

// searchResponse is the GET /api/v1/search response body.
type searchResponse struct {
	Results  []resultItem `json:"results"`
	Metadata metadata     `json:"metadata"`
}

// metadata echoes the effective query parameters back to the caller.
type metadata struct {
	Query      string   `json:"query"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	Budget     *float64 `json:"budget,omitempty"`
	NumResults int      `json:"num_results"`
	SearchType string   `json:"search_type"`
}

// resultItem is one ranked venue in a response.
type resultItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category string       `json:"category"`
	Location *geoLocation `json:"location,omitempty"`
	Address  string       `json:"address,omitempty"`
	Price    *float64     `json:"price,omitempty"`
	Rating   float64      `json:"rating"`
	Score    float64      `json:"score"`
}

// geoLocation is a coordinate pair in a response.
type geoLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// healthResponse is the GET /health response body.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func resultItemFromCandidate(c *venue.Candidate) resultItem {
	item := resultItem{
		ID:       c.ID(),
		Name:     c.Name(),
		Category: c.Category(),
		Address:  c.Address(),
		Rating:   c.Rating(),
		Score:    c.FusedScore(),
	}
	if loc, ok := c.Location(); ok {
		item.Location = &geoLocation{Lat: loc.Lat, Lng: loc.Lng}
	}
	if price, ok := c.Price(); ok {
		item.Price = &price
	}
	return item
}

func resultItemsFromCandidates(cs []venue.Candidate) []resultItem {
	items := make([]resultItem, len(cs))
	for i := range cs {
		items[i] = resultItemFromCandidate(&cs[i])
	}
	return items
}

func metadataFromQuery(q *query.Query, numResults int, searchType string) metadata {
	md := metadata{
		Query:      q.Text(),
		Budget:     q.Budget(),
		NumResults: numResults,
		SearchType: searchType,
	}
	if loc := q.Location(); loc != nil {
		md.Lat = &loc.Lat
		md.Lng = &loc.Lng
	}
	return md
}
