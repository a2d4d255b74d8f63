package ai

import (
	"context"
	"time"

	"contra-feed/shared/config"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

var ErrUnknownProvider = goerr.New("unknown embedding provider")

// Embedder turns text into a vector whose length never changes for the
// lifetime of the instance.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Model() string
}

// NewEmbedder builds the backend selected by cfg.Embedding.Provider.
func NewEmbedder(ctx context.Context, cfg *config.EmbeddingConfig, logger *zap.Logger) (Embedder, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiEmbedder(ctx, cfg, logger)
	case "tei":
		return NewTEIEmbedder(cfg.URL, cfg.Model, cfg.Dimension, time.Duration(cfg.TimeoutSeconds)*time.Second), nil
	default:
		return nil, goerr.Wrap(ErrUnknownProvider, "cannot build embedder", goerr.V("provider", cfg.Provider))
	}
}
