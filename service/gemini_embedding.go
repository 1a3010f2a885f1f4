package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/dreamer-be/config"
	"github.com/tieubaoca/dreamer-be/types"
	"google.golang.org/api/option"
)

// GeminiEmbedder computes embeddings with the Gemini embedding API.
type GeminiEmbedder struct {
	client     *genai.Client
	model      *genai.EmbeddingModel
	dimensions int
}

func NewGeminiEmbedder(ctx context.Context, cfg config.EmbeddingConfig) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("no Gemini API key provided")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %v", err)
	}
	return &GeminiEmbedder{
		client:     client,
		model:      client.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
	}, nil
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbeddingTransient, err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", types.ErrEmbeddingTransient)
	}
	return res.Embedding.Values, nil
}

func (e *GeminiEmbedder) Dimensions() int {
	return e.dimensions
}

// Close releases the underlying API client.
func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
