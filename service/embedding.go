package service

import (
	"context"
	"fmt"

	"github.com/tieubaoca/dreamer-be/config"
)

// Embedder maps text to a fixed-dimension vector. Implementations may fail
// transiently (rate limit, timeout); callers decide whether to retry.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed embedding vector size.
	Dimensions() int
}

// NewEmbedder builds the embedding provider selected by the configuration.
func NewEmbedder(ctx context.Context, cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiEmbedder(ctx, cfg)
	case "openai":
		return NewOpenAIEmbedder(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
