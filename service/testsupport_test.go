package service_test

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"sync"

	"github.com/tieubaoca/dreamer-be/database"
	"github.com/tieubaoca/dreamer-be/types"
)

// fakeStore is an in-memory DocumentStore with the same filter semantics as
// the real adapter. VectorSearch ranks similarity inside the filtered subset
// only, mirroring the hard pre-filter contract.
type fakeStore struct {
	mu     sync.Mutex
	nextID int
	docs   map[string]*types.KnowledgeDocument
	order  []string

	createErr error
	queryErr  error
	aggErr    error
	updateErr map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:      make(map[string]*types.KnowledgeDocument),
		updateErr: make(map[string]error),
	}
}

// add inserts a document directly, bypassing Create, for test seeding.
func (s *fakeStore) add(doc types.KnowledgeDocument) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := doc.ID
	if id == "" {
		id = fmt.Sprintf("doc-%d", s.nextID)
	}
	doc.ID = id
	s.docs[id] = &doc
	s.order = append(s.order, id)
	return id
}

func (s *fakeStore) get(id string) *types.KnowledgeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[id]
}

func (s *fakeStore) Create(ctx context.Context, doc *types.KnowledgeDocument) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	return s.add(*doc), nil
}

func (s *fakeStore) Query(ctx context.Context, filter database.DocumentFilter, sortOpt *database.SortOption, limit int) ([]types.KnowledgeDocument, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []types.KnowledgeDocument
	for _, id := range s.order {
		if matchFilter(s.docs[id], filter) {
			result = append(result, *s.docs[id])
		}
	}
	if sortOpt != nil && sortOpt.Field == "timestamp" {
		sort.SliceStable(result, func(i, j int) bool {
			if sortOpt.Descending {
				return result[i].Timestamp > result[j].Timestamp
			}
			return result[i].Timestamp < result[j].Timestamp
		})
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *fakeStore) Aggregate(ctx context.Context, filter database.DocumentFilter) (map[string]int, error) {
	if s.aggErr != nil {
		return nil, s.aggErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, doc := range s.docs {
		if matchFilter(doc, filter) {
			counts[doc.Namespace]++
		}
	}
	return counts, nil
}

func (s *fakeStore) VectorSearch(ctx context.Context, vector []float32, k, candidatePool int, filter database.DocumentFilter) ([]types.KnowledgeDocument, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Filter first, rank second.
	var candidates []types.KnowledgeDocument
	for _, id := range s.order {
		doc := s.docs[id]
		if matchFilter(doc, filter) && doc.Vector != nil {
			candidates = append(candidates, *doc)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return cosine(candidates[i].Vector, vector) > cosine(candidates[j].Vector, vector)
	})
	if candidatePool > 0 && len(candidates) > candidatePool {
		candidates = candidates[:candidatePool]
	}
	if k > 0 && len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

func (s *fakeStore) PartialUpdate(ctx context.Context, id string, fields database.UpdateFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateErr[id]; err != nil {
		return err
	}
	doc, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("%w: no document %s", types.ErrStoreUnavailable, id)
	}
	if fields.Vector != nil {
		doc.Vector = append([]float32(nil), fields.Vector...)
	}
	if fields.Status != "" {
		doc.Status = fields.Status
	}
	return nil
}

func (s *fakeStore) Count(ctx context.Context, filter database.DocumentFilter) (int, error) {
	if s.queryErr != nil {
		return 0, s.queryErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, doc := range s.docs {
		if matchFilter(doc, filter) {
			count++
		}
	}
	return count, nil
}

func matchFilter(doc *types.KnowledgeDocument, f database.DocumentFilter) bool {
	if f.Namespace != "" && doc.Namespace != f.Namespace {
		return false
	}
	if f.Status != "" && doc.Status != f.Status {
		return false
	}
	if f.DocType != "" && doc.DocType != f.DocType {
		return false
	}
	if f.Entity != "" && doc.Head != f.Entity && doc.Tail != f.Entity {
		return false
	}
	return true
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// fakeEmbedder produces deterministic hash-based embeddings: identical text
// always maps to the identical unit vector.
type fakeEmbedder struct {
	mu    sync.Mutex
	dims  int
	fail  map[string]bool
	texts []string
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{dims: 8, fail: make(map[string]bool)}
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.texts = append(e.texts, text)
	failed := e.fail[text]
	e.mu.Unlock()
	if failed {
		return nil, fmt.Errorf("%w: rate limited", types.ErrEmbeddingTransient)
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	embedding := make([]float32, e.dims)
	var norm float64
	for i := range embedding {
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
		norm += float64(embedding[i]) * float64(embedding[i])
	}
	norm = math.Sqrt(norm)
	for i := range embedding {
		embedding[i] = float32(float64(embedding[i]) / norm)
	}
	return embedding, nil
}

func (e *fakeEmbedder) Dimensions() int {
	return e.dims
}

func (e *fakeEmbedder) embedded() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.texts...)
}
