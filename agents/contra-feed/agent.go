package contrafeed

import (
	"context"
	"fmt"
	"time"

	"contra-feed/internal/models"
	"contra-feed/shared/scheduler"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

// PoolBuilder regenerates and persists a candidate pool.
type PoolBuilder interface {
	SamplePool(ctx context.Context, size int, useCache bool) ([]*models.EnrichedVideo, error)
}

// PoolRefresher rebuilds the configured pool sizes on every scheduled run so
// feed requests keep hitting a warm, recent pool.
type PoolRefresher struct {
	sizes  []int
	pools  PoolBuilder
	init   func() (PoolBuilder, error)
	logger *zap.Logger
}

// RefreshMetrics summarizes one refresh run.
type RefreshMetrics struct {
	Refreshed  int
	Failed     int
	Candidates int
}

func (m RefreshMetrics) GetSummary() string {
	return fmt.Sprintf("refreshed %d pools (%d candidates), %d failed", m.Refreshed, m.Candidates, m.Failed)
}

// NewPoolRefresher defers building the pool builder until Initialize so the
// scheduler controls when credentials are first used.
func NewPoolRefresher(sizes []int, init func() (PoolBuilder, error), logger *zap.Logger) *PoolRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoolRefresher{
		sizes:  sizes,
		init:   init,
		logger: logger,
	}
}

func (p *PoolRefresher) Name() string { return "Contra Pool Refresher" }

func (p *PoolRefresher) Initialize() error {
	if p.pools != nil {
		return nil
	}
	pools, err := p.init()
	if err != nil {
		return goerr.Wrap(err, "failed to initialize pool builder")
	}
	p.pools = pools
	p.logger.Info("pool refresher initialized", zap.Ints("sizes", p.sizes))
	return nil
}

// RunOnce refreshes every size. A single failed size is a partial failure;
// the run fails only when every size does.
func (p *PoolRefresher) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	start := time.Now()
	var metrics RefreshMetrics

	for _, size := range p.sizes {
		pool, err := p.pools.SamplePool(ctx, size, false)
		if err != nil {
			metrics.Failed++
			p.logger.Warn("pool refresh failed", zap.Int("size", size), zap.Error(err))
			if events != nil && events.OnPartialFailure != nil {
				events.OnPartialFailure(goerr.Wrap(err, "refresh failed", goerr.V("size", size)), time.Since(start))
			}
			continue
		}
		metrics.Refreshed++
		metrics.Candidates += len(pool)
	}

	if len(p.sizes) > 0 && metrics.Refreshed == 0 {
		return goerr.New("every pool refresh failed", goerr.V("sizes", p.sizes))
	}

	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(start))
	}
	return nil
}
