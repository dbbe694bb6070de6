package domain

import "errors"

var (
	// ErrInvalidQuery signals a malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrRetrievalFailed signals that no retrieval channel produced candidates.
	ErrRetrievalFailed = errors.New("retrieval failed")
	// ErrGenerationFailed signals an answer generation failure during chat.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrIndexUnavailable signals that the search index cannot be reached.
	ErrIndexUnavailable = errors.New("search index unavailable")
)
