package ai

import (
	"context"

	"contra-feed/shared/config"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrDimension is returned when a backend hands back a vector of the wrong length.
var ErrDimension = goerr.New("embedding has unexpected dimension")

type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
	logger    *zap.Logger
}

func NewGeminiEmbedder(ctx context.Context, cfg *config.EmbeddingConfig, logger *zap.Logger) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	logger.Info("Gemini embedder ready",
		zap.String("model", cfg.Model),
		zap.Int("dimension", cfg.Dimension))

	return &GeminiEmbedder{
		client:    client,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		logger:    logger,
	}, nil
}

func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	dim := int32(g.dimension)
	result, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), &genai.EmbedContentConfig{
		TaskType:             "SEMANTIC_SIMILARITY",
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed text", goerr.V("model", g.model))
	}

	if len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, goerr.New("empty embedding response", goerr.V("model", g.model))
	}

	values := result.Embeddings[0].Values
	if len(values) != g.dimension {
		return nil, goerr.Wrap(ErrDimension, "Gemini returned wrong size",
			goerr.V("want", g.dimension),
			goerr.V("got", len(values)))
	}
	return values, nil
}

func (g *GeminiEmbedder) Dimension() int { return g.dimension }

func (g *GeminiEmbedder) Model() string { return g.model }
