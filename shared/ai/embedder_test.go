package ai

import (
	"context"
	"testing"

	"contra-feed/shared/config"

	"github.com/m-mizutani/gt"
	"go.uber.org/zap"
)

func TestNewEmbedder(t *testing.T) {
	t.Run("TEI backend", func(t *testing.T) {
		cfg := &config.EmbeddingConfig{Provider: "tei", URL: "http://localhost:8081", Model: "mini", Dimension: 384, TimeoutSeconds: 5}
		e, err := NewEmbedder(context.Background(), cfg, zap.NewNop())
		gt.NoError(t, err).Required()
		gt.Value(t, e.Model()).Equal("mini")
		gt.Value(t, e.Dimension()).Equal(384)
	})

	t.Run("Unknown provider", func(t *testing.T) {
		cfg := &config.EmbeddingConfig{Provider: "openai"}
		_, err := NewEmbedder(context.Background(), cfg, zap.NewNop())
		gt.Error(t, err).Is(ErrUnknownProvider)
	})
}
