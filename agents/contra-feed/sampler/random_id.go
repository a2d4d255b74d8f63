package sampler

import (
	"context"

	"contra-feed/shared/monitoring"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

const (
	defaultRandomIDAttempts = 1000
	randomIDProgressEvery   = 100
)

// RandomID probes uniformly random IDs for existence. The hit rate is
// vanishingly small, so it is never the default.
type RandomID struct {
	searcher Searcher
	rng      *lockedRand
	attempts int
	logger   *zap.Logger
}

func newRandomID(searcher Searcher, rng *lockedRand, attempts int, logger *zap.Logger) *RandomID {
	if attempts <= 0 {
		attempts = defaultRandomIDAttempts
	}
	return &RandomID{
		searcher: searcher,
		rng:      rng,
		attempts: attempts,
		logger:   logger.Named("random_id"),
	}
}

func (r *RandomID) Name() string { return StrategyRandomID }

// Sample stops after the configured attempts or once targetSize IDs are found.
func (r *RandomID) Sample(ctx context.Context, targetSize int) ([]string, error) {
	set := newIDSet()

	for i := 0; i < r.attempts && set.len() < targetSize; i++ {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "random id sampling cancelled", goerr.V("attempts", i))
		}

		id := r.rng.randomString(idLength)
		ok, err := r.searcher.VideoExists(ctx, id)
		switch {
		case err != nil:
			monitoring.SamplerDraws.WithLabelValues(StrategyRandomID, "error").Inc()
			r.logger.Debug("existence check failed", zap.String("video_id", id), zap.Error(err))
		case ok:
			monitoring.SamplerDraws.WithLabelValues(StrategyRandomID, "hit").Inc()
			set.add(id)
			r.logger.Info("found video", zap.String("video_id", id), zap.Int("total", set.len()))
		default:
			monitoring.SamplerDraws.WithLabelValues(StrategyRandomID, "miss").Inc()
		}

		if (i+1)%randomIDProgressEvery == 0 {
			r.logger.Info("random id progress",
				zap.Int("attempts", i+1),
				zap.Int("total", r.attempts),
				zap.Int("found", set.len()))
		}
	}

	return set.ids, nil
}
