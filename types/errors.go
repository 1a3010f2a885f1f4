package types

import "errors"

// Error taxonomy. Callers match with errors.Is.
var (
	// ErrInvalidInput marks malformed ingestion or query parameters.
	// Surfaced immediately, never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable marks a document store failure. Fatal for the
	// current operation or dream cycle; the whole operation may be retried
	// later.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrEmbeddingTransient marks a transient embedding provider failure.
	// Inside a dream cycle it is absorbed per document; the document stays
	// raw and is retried on a later cycle.
	ErrEmbeddingTransient = errors.New("transient embedding failure")
)
