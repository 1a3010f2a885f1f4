package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/tieubaoca/dreamer-be/database"
	"github.com/tieubaoca/dreamer-be/types"
)

const (
	// Result caps per operation.
	namespaceSearchLimit = 10
	entityRelationsLimit = 15
	crossReferenceLimit  = 10

	// Bounded scan pool for the in-memory cross-reference aggregation.
	crossReferenceScanPool = 1000

	// Semantic search parameters.
	semanticK          = 3
	semanticCandidates = 10
)

// QueryService executes the five read operations of the knowledge graph.
// Every operation reads dreamed documents only; raw documents are invisible
// until the dreamer promotes them.
type QueryService struct {
	store    database.DocumentStore
	embedder Embedder
}

func NewQueryService(store database.DocumentStore, embedder Embedder) *QueryService {
	return &QueryService{store: store, embedder: embedder}
}

// SearchByNamespace returns the most recent dreamed documents of exactly one
// namespace. The namespace filter is mandatory and exact-match; no document
// from another namespace is ever returned.
func (q *QueryService) SearchByNamespace(ctx context.Context, namespace string) ([]types.KnowledgeDocument, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace is required", types.ErrInvalidInput)
	}
	return q.store.Query(ctx, database.DocumentFilter{
		Namespace: namespace,
		Status:    types.StatusDreamed,
	}, database.SortByTimestampDesc, namespaceSearchLimit)
}

// FindEntityRelations traverses the graph around one entity: all dreamed
// triplets where the entity is head or tail. The lookup deliberately spans
// namespaces — entity identity is namespace-independent — and each result
// carries its own namespace so the caller can attribute provenance.
func (q *QueryService) FindEntityRelations(ctx context.Context, entity string) ([]types.KnowledgeDocument, error) {
	if entity == "" {
		return nil, fmt.Errorf("%w: entity is required", types.ErrInvalidInput)
	}
	return q.store.Query(ctx, database.DocumentFilter{
		Entity:  entity,
		Status:  types.StatusDreamed,
		DocType: types.DocTypeTriplet,
	}, nil, entityRelationsLimit)
}

// ListNamespaces returns every namespace holding dreamed documents with its
// document count, largest first.
func (q *QueryService) ListNamespaces(ctx context.Context) ([]types.NamespaceCount, error) {
	counts, err := q.store.Aggregate(ctx, database.DocumentFilter{Status: types.StatusDreamed})
	if err != nil {
		return nil, err
	}

	result := make([]types.NamespaceCount, 0, len(counts))
	for namespace, count := range counts {
		result = append(result, types.NamespaceCount{Namespace: namespace, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Namespace < result[j].Namespace
	})
	return result, nil
}

// CrossReference finds triplet tails that appear in more than one namespace.
// This is the single sanctioned cross-namespace read; callers invoke it only
// when a comparison is explicitly requested.
func (q *QueryService) CrossReference(ctx context.Context) ([]types.CrossReferenceEntry, error) {
	docs, err := q.store.Query(ctx, database.DocumentFilter{
		Status:  types.StatusDreamed,
		DocType: types.DocTypeTriplet,
	}, nil, crossReferenceScanPool)
	if err != nil {
		return nil, err
	}

	byTail := make(map[string]map[string]struct{})
	for _, doc := range docs {
		if doc.Tail == "" {
			continue
		}
		if byTail[doc.Tail] == nil {
			byTail[doc.Tail] = make(map[string]struct{})
		}
		byTail[doc.Tail][doc.Namespace] = struct{}{}
	}

	var entries []types.CrossReferenceEntry
	for tail, namespaces := range byTail {
		if len(namespaces) < 2 {
			continue
		}
		names := make([]string, 0, len(namespaces))
		for ns := range namespaces {
			names = append(names, ns)
		}
		sort.Strings(names)
		entries = append(entries, types.CrossReferenceEntry{
			Tail:           tail,
			NamespaceCount: len(namespaces),
			Namespaces:     names,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].NamespaceCount != entries[j].NamespaceCount {
			return entries[i].NamespaceCount > entries[j].NamespaceCount
		}
		return entries[i].Tail < entries[j].Tail
	})
	if len(entries) > crossReferenceLimit {
		entries = entries[:crossReferenceLimit]
	}
	return entries, nil
}

// SearchSemantic embeds the query and runs a k-nearest-neighbour search with
// the namespace as a hard pre-filter: similarity is ranked within the
// namespace subset only, so a closer match in another namespace can neither
// leak nor crowd out results.
func (q *QueryService) SearchSemantic(ctx context.Context, query, namespace string) ([]types.KnowledgeDocument, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", types.ErrInvalidInput)
	}
	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace is required", types.ErrInvalidInput)
	}

	vector, err := q.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return q.store.VectorSearch(ctx, vector, semanticK, semanticCandidates, database.DocumentFilter{
		Namespace: namespace,
		Status:    types.StatusDreamed,
	})
}
