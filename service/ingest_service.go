package service

import (
	"context"

	"github.com/tieubaoca/dreamer-be/database"
	"github.com/tieubaoca/dreamer-be/types"
)

// IngestService creates raw knowledge documents. New documents are invisible
// to the query engine until a dream cycle promotes them.
type IngestService struct {
	store database.DocumentStore
}

func NewIngestService(store database.DocumentStore) *IngestService {
	return &IngestService{store: store}
}

// IngestTriplet stores a (head)-[relation]->(tail) triplet in the given
// namespace. content overrides the synthesized display text when non-empty.
func (s *IngestService) IngestTriplet(ctx context.Context, head, relation, tail, namespace, content string) (*types.DocumentRef, error) {
	doc := types.NewTriplet(head, relation, tail, namespace, content)
	return s.create(ctx, doc)
}

// IngestNote stores a free-text note linked to a topic entity.
func (s *IngestService) IngestNote(ctx context.Context, topic, text, namespace string) (*types.DocumentRef, error) {
	doc := types.NewNote(topic, text, namespace)
	return s.create(ctx, doc)
}

func (s *IngestService) create(ctx context.Context, doc *types.KnowledgeDocument) (*types.DocumentRef, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	id, err := s.store.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	return &types.DocumentRef{ID: id, Namespace: doc.Namespace}, nil
}
