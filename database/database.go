package database

import (
	"context"

	"github.com/tieubaoca/dreamer-be/types"
)

// DocumentFilter is the typed query filter for knowledge documents. Empty
// fields are ignored; set fields combine with AND. Entity matches documents
// whose head OR tail equals the value.
type DocumentFilter struct {
	Namespace string
	Status    types.DocumentStatus
	DocType   types.DocumentType
	Entity    string
}

// SortOption orders query results by a single field.
type SortOption struct {
	Field      string
	Descending bool
}

// SortByTimestampDesc is the recency ordering used by namespace search.
var SortByTimestampDesc = &SortOption{Field: "timestamp", Descending: true}

// UpdateFields is the partial update applied when a document is promoted.
// Vector and Status are always written together so a reader never observes
// a dreamed document without a vector.
type UpdateFields struct {
	Vector []float32
	Status types.DocumentStatus
}

// DocumentStore is the storage capability the knowledge graph is built on.
// Only ingestion creates documents and only the dream cycle calls
// PartialUpdate; everything else is read-only.
type DocumentStore interface {
	// Create stores a new document and returns its id.
	Create(ctx context.Context, doc *types.KnowledgeDocument) (string, error)

	// Query returns up to limit documents matching the filter.
	Query(ctx context.Context, filter DocumentFilter, sort *SortOption, limit int) ([]types.KnowledgeDocument, error)

	// Aggregate groups documents matching the filter by namespace and
	// returns per-namespace counts.
	Aggregate(ctx context.Context, filter DocumentFilter) (map[string]int, error)

	// VectorSearch runs a k-nearest-neighbour search restricted to the
	// filter. The filter is applied before ranking, never as a post-filter
	// on a global result set.
	VectorSearch(ctx context.Context, vector []float32, k, candidatePool int, filter DocumentFilter) ([]types.KnowledgeDocument, error)

	// PartialUpdate merges the given fields into an existing document.
	PartialUpdate(ctx context.Context, id string, fields UpdateFields) error

	// Count returns the number of documents matching the filter.
	Count(ctx context.Context, filter DocumentFilter) (int, error)
}
