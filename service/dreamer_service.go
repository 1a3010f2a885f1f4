package service

import (
	"context"
	"fmt"
	"log"

	"github.com/tieubaoca/dreamer-be/config"
	"github.com/tieubaoca/dreamer-be/database"
	"github.com/tieubaoca/dreamer-be/types"
	"golang.org/x/time/rate"
)

// DefaultBatchSize bounds how many raw documents one cycle picks up.
const DefaultBatchSize = 50

// DreamerService is the background consolidation agent. Each DreamCycle call
// drains one bounded batch of raw documents, vectorizes them and promotes
// them to dreamed. It never loops internally; the caller re-invokes it while
// a backlog remains.
type DreamerService struct {
	store     database.DocumentStore
	embedder  Embedder
	batchSize int
	limiter   *rate.Limiter
}

func NewDreamerService(store database.DocumentStore, embedder Embedder, cfg config.DreamerConfig) *DreamerService {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.EmbedInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.EmbedInterval), 1)
	}
	return &DreamerService{
		store:     store,
		embedder:  embedder,
		batchSize: batchSize,
		limiter:   limiter,
	}
}

// DreamCycle runs one consolidation batch.
//
// A provider failure for one document skips that document and continues; the
// document stays raw and is retried on a later cycle. A store failure aborts
// the cycle — promotions already applied stay valid because each one is a
// single atomic update.
func (s *DreamerService) DreamCycle(ctx context.Context) (*types.DreamReport, error) {
	docs, err := s.store.Query(ctx, database.DocumentFilter{Status: types.StatusRaw}, nil, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw documents: %w", err)
	}

	report := &types.DreamReport{Attempted: len(docs)}
	if len(docs) == 0 {
		return report, nil
	}
	log.Printf("dream cycle: %d raw document(s) to process", len(docs))

	for _, doc := range docs {
		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}

		vector, err := s.embedder.Embed(ctx, doc.EmbeddingText())
		if err != nil {
			log.Printf("dream cycle: embedding failed for document %s: %v", doc.ID, err)
			report.Failed++
			continue
		}
		if len(vector) != s.embedder.Dimensions() {
			log.Printf("dream cycle: unexpected vector length %d for document %s", len(vector), doc.ID)
			report.Failed++
			continue
		}

		// Promotion happens only after a successful embed, so a dreamed
		// document always carries a vector.
		err = s.store.PartialUpdate(ctx, doc.ID, database.UpdateFields{
			Vector: vector,
			Status: types.StatusDreamed,
		})
		if err != nil {
			return report, fmt.Errorf("failed to promote document %s: %w", doc.ID, err)
		}
		report.Succeeded++
	}

	log.Printf("dream cycle complete: %d consolidated, %d failed", report.Succeeded, report.Failed)
	return report, nil
}

// Backlog reports how many raw documents are waiting for consolidation.
func (s *DreamerService) Backlog(ctx context.Context) (int, error) {
	return s.store.Count(ctx, database.DocumentFilter{Status: types.StatusRaw})
}
