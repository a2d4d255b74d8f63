// Package embedcache memoizes embeddings in front of an ai.Embedder.
//
// Entries are keyed two ways: by raw text for EmbedOne and by "video:<id>" for
// EmbedBatch. A video miss is resolved through EmbedOne, so text that is
// already cached is never sent to the model again; the video key only saves
// the text lookup on later batches. Returned slices are shared with the cache
// and must not be modified.
package embedcache

import (
	"context"
	"strings"

	"contra-feed/internal/models"
	"contra-feed/shared/ai"
	"contra-feed/shared/monitoring"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

const videoKeyPrefix = "video:"

type Cache struct {
	embedder ai.Embedder
	store    Store
	logger   *zap.Logger
}

func New(embedder ai.Embedder, store Store, logger *zap.Logger) *Cache {
	if store == nil {
		store = NewUnboundedStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// EmbedOne returns the embedding for text, computing it at most once. Blank
// text maps to the zero vector without a model call.
func (c *Cache) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return make([]float32, c.embedder.Dimension()), nil
	}

	if vec, ok := c.store.Get(text); ok {
		monitoring.EmbeddingCacheHits.Inc()
		return vec, nil
	}
	monitoring.EmbeddingCacheMisses.Inc()

	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "embed text", goerr.V("model", c.embedder.Model()))
	}
	monitoring.EmbedCalls.Inc()

	c.store.Add(text, vec)
	return vec, nil
}

// EmbedBatch returns one embedding per video, in input order.
func (c *Cache) EmbedBatch(ctx context.Context, videos []*models.EnrichedVideo) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(videos))
	computed := 0

	for _, video := range videos {
		key := videoKeyPrefix + video.ID

		if vec, ok := c.store.Get(key); ok {
			monitoring.EmbeddingCacheHits.Inc()
			embeddings = append(embeddings, vec)
			continue
		}

		vec, err := c.EmbedOne(ctx, video.EmbeddingText)
		if err != nil {
			return nil, goerr.Wrap(err, "embed video", goerr.V("video_id", video.ID))
		}
		c.store.Add(key, vec)
		embeddings = append(embeddings, vec)
		computed++
	}

	c.logger.Debug("embedded batch",
		zap.Int("videos", len(videos)),
		zap.Int("computed", computed),
		zap.Int("cache_size", c.store.Len()))

	return embeddings, nil
}

func (c *Cache) Dimension() int { return c.embedder.Dimension() }

func (c *Cache) Len() int { return c.store.Len() }

func (c *Cache) Purge() { c.store.Purge() }
