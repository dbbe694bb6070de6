package rag

import (
	"github.com/matzipcloud/matzip/internal/domain/search/mode"
	"github.com/matzipcloud/matzip/internal/domain/venue"
)

// Result is the outcome of a search or chat operation.
type Result struct {
	// Answer is the generated recommendation text. Empty for plain search.
	Answer string

	// Candidates are the ranked venues backing the answer.
	Candidates []venue.Candidate

	// Mode is the retrieval mode that actually produced the candidates.
	// It differs from the requested mode when a channel was lost and the
	// request degraded to the surviving one.
	Mode mode.Mode
}
