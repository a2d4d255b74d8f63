package sampler

import (
	"context"

	"contra-feed/shared/monitoring"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

const (
	defaultPrefixLength = 5
	prefixHits          = 10
	categoryHits        = 20
	// Each prefix search yields roughly seven new videos.
	videosPerPrefix     = 7
	prefixProgressEvery = 10
)

// Categories are searched after the random prefixes to widen topical coverage.
var Categories = []string{
	"music", "gaming", "news", "sports", "education", "technology",
	"science", "politics", "cooking", "travel", "fashion", "comedy",
}

// Hybrid searches random short strings, then a fixed list of broad categories.
// The random strings are ordinary search terms, not ID prefixes.
type Hybrid struct {
	searcher     Searcher
	rng          *lockedRand
	prefixLength int
	logger       *zap.Logger
}

func newHybrid(searcher Searcher, rng *lockedRand, prefixLength int, logger *zap.Logger) *Hybrid {
	if prefixLength <= 0 {
		prefixLength = defaultPrefixLength
	}
	return &Hybrid{
		searcher:     searcher,
		rng:          rng,
		prefixLength: prefixLength,
		logger:       logger.Named("hybrid"),
	}
}

func (h *Hybrid) Name() string { return StrategyHybrid }

func (h *Hybrid) Sample(ctx context.Context, targetSize int) ([]string, error) {
	set := newIDSet()
	numPrefixes := targetSize / videosPerPrefix

	h.logger.Info("prefix sampling", zap.Int("prefixes", numPrefixes))
	for i := 0; i < numPrefixes; i++ {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "prefix sampling cancelled", goerr.V("completed", i))
		}

		prefix := h.rng.randomString(h.prefixLength)
		h.search(ctx, prefix, prefixHits, set)

		if (i+1)%prefixProgressEvery == 0 {
			h.logger.Info("prefix progress",
				zap.Int("done", i+1),
				zap.Int("total", numPrefixes),
				zap.Int("unique_videos", set.len()))
		}
	}

	h.logger.Info("category sampling", zap.Int("categories", len(Categories)))
	for _, category := range Categories {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "category sampling cancelled", goerr.V("category", category))
		}
		h.search(ctx, category, categoryHits, set)
	}

	return set.ids, nil
}

// search adds hits to set; a failed query counts as a miss.
func (h *Hybrid) search(ctx context.Context, query string, maxResults int, set *idSet) {
	ids, err := h.searcher.SearchVideos(ctx, query, maxResults)
	if err != nil {
		monitoring.SamplerDraws.WithLabelValues(StrategyHybrid, "error").Inc()
		h.logger.Warn("search failed, skipping", zap.String("query", query), zap.Error(err))
		return
	}
	if set.add(ids...) == 0 {
		monitoring.SamplerDraws.WithLabelValues(StrategyHybrid, "miss").Inc()
		return
	}
	monitoring.SamplerDraws.WithLabelValues(StrategyHybrid, "hit").Inc()
}
