// Package contrafeed wires the contra feed components together and runs the
// scheduled pool refresh.
package contrafeed

import (
	"context"

	"contra-feed/agents/contra-feed/contra"
	"contra-feed/agents/contra-feed/sampler"
	"contra-feed/agents/contra-feed/youtube"
	"contra-feed/shared/ai"
	"contra-feed/shared/config"
	"contra-feed/shared/embedcache"
	"contra-feed/shared/storage"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

// App holds one fully wired generator and the pieces it was built from.
type App struct {
	Config    *config.Config
	YouTube   *youtube.Client
	Sampler   *sampler.Sampler
	Pools     *storage.PoolCache
	Cache     *embedcache.Cache
	Generator *contra.Generator
	Logger    *zap.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	yt, err := youtube.NewClient(ctx, &cfg.YouTube, logger.Named("youtube"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create YouTube client")
	}

	embedder, err := ai.NewEmbedder(ctx, &cfg.Embedding, logger.Named("embedder"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create embedder")
	}

	store, err := embedcache.NewStore(cfg.Cache.EmbeddingCapacity)
	if err != nil {
		return nil, err
	}
	cache := embedcache.New(embedder, store, logger.Named("embedcache"))

	smp, err := sampler.New(yt, &cfg.Sampler, nil, logger.Named("sampler"))
	if err != nil {
		return nil, err
	}

	pools, err := storage.NewPoolCache(cfg.Cache.Dir, logger.Named("pools"))
	if err != nil {
		return nil, err
	}

	thresholds := contra.Thresholds{
		MinDistance: cfg.Contra.MinDistance,
		MinAngle:    cfg.Contra.MinAngle,
	}
	gen := contra.NewGenerator(yt, cache, smp, pools, thresholds, logger.Named("contra"))

	logger.Info("contra feed ready",
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", embedder.Model()),
		zap.Int("embedding_dimension", embedder.Dimension()),
		zap.String("sampler", smp.Strategy()),
		zap.String("cache_dir", pools.Dir()))

	return &App{
		Config:    cfg,
		YouTube:   yt,
		Sampler:   smp,
		Pools:     pools,
		Cache:     cache,
		Generator: gen,
		Logger:    logger,
	}, nil
}

// DefaultOptions are the feed options from the contra config section.
func (a *App) DefaultOptions() (contra.Options, error) {
	method, err := contra.ParseMethod(a.Config.Contra.Method)
	if err != nil {
		return contra.Options{}, err
	}
	return contra.Options{
		NumContraVideos: a.Config.Contra.NumContraVideos,
		SampleSize:      a.Config.Contra.SampleSize,
		UseCache:        true,
		Method:          method,
	}, nil
}
