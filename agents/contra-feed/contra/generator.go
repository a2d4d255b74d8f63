// Package contra finds videos whose content points away from a set of input videos.
package contra

import (
	"context"
	"errors"
	"time"

	"contra-feed/agents/contra-feed/youtube"
	"contra-feed/internal/models"
	"contra-feed/shared/embedcache"
	"contra-feed/shared/monitoring"
	"contra-feed/shared/storage"
	"contra-feed/shared/vector"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

type MetadataProvider interface {
	GetVideo(ctx context.Context, id string) (*models.EnrichedVideo, error)
	GetVideos(ctx context.Context, ids []string) ([]*models.EnrichedVideo, error)
}

type CandidateSampler interface {
	Sample(ctx context.Context, targetSize int) ([]string, error)
}

type Thresholds struct {
	MinDistance float64
	MinAngle    float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinDistance: vector.DefaultMinDistance,
		MinAngle:    vector.DefaultMinAngle,
	}
}

type Generator struct {
	provider   MetadataProvider
	embeddings *embedcache.Cache
	sampler    CandidateSampler
	pools      *storage.PoolCache
	thresholds Thresholds
	logger     *zap.Logger
}

func NewGenerator(
	provider MetadataProvider,
	embeddings *embedcache.Cache,
	sampler CandidateSampler,
	pools *storage.PoolCache,
	thresholds Thresholds,
	logger *zap.Logger,
) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		provider:   provider,
		embeddings: embeddings,
		sampler:    sampler,
		pools:      pools,
		thresholds: thresholds,
		logger:     logger,
	}
}

// SamplePool returns the enriched candidate pool for size, from disk when
// useCache is set and a pool exists, otherwise freshly sampled and saved.
func (g *Generator) SamplePool(ctx context.Context, size int, useCache bool) ([]*models.EnrichedVideo, error) {
	if useCache {
		pool, ok, err := g.pools.Load(size)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load cached pool", goerr.V("size", size))
		}
		if ok {
			return pool, nil
		}
	}

	ids, err := g.sampler.Sample(ctx, size)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sample candidates", goerr.V("size", size))
	}

	g.logger.Info("fetching pool metadata", zap.Int("videos", len(ids)))
	fetched, err := g.provider.GetVideos(ctx, ids)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch pool metadata", goerr.V("size", size))
	}
	pool := dedupe(fetched)

	// An empty pool usually means the API was unavailable; caching it would
	// pin every later cached request to an empty feed.
	if len(pool) == 0 {
		g.logger.Warn("sampled pool is empty, not caching", zap.Int("size", size))
		return pool, nil
	}
	if err := g.pools.Save(size, pool); err != nil {
		g.logger.Warn("failed to cache pool", zap.Int("size", size), zap.Error(err))
	}
	return pool, nil
}

// GenerateFeed returns up to req.NumContraVideos pool candidates ordered from
// most to least opposite. Input IDs without metadata are dropped; if none
// remain the call fails with ErrNotFound.
func (g *Generator) GenerateFeed(ctx context.Context, req Request) ([]*models.ContraVideo, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	logger := g.logger.With(zap.String("request_id", uuid.NewString()))
	logger.Info("generating contra feed",
		zap.Int("inputs", len(req.VideoIDs)),
		zap.String("method", string(req.Method)),
		zap.Int("sample_size", req.SampleSize))

	inputs, err := g.provider.GetVideos(ctx, req.VideoIDs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch input metadata")
	}
	if len(inputs) == 0 {
		return nil, goerr.Wrap(ErrNotFound, "none of the input videos could be resolved",
			goerr.V("video_ids", req.VideoIDs))
	}
	logger.Info("resolved inputs", zap.Int("found", len(inputs)))

	pool, err := g.SamplePool(ctx, req.SampleSize, req.UseCache)
	if err != nil {
		return nil, err
	}
	logger.Info("candidate pool ready", zap.Int("candidates", len(pool)))

	queries, err := g.embeddings.EmbedBatch(ctx, inputs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed inputs")
	}
	candidates, err := g.embeddings.EmbedBatch(ctx, pool)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed pool")
	}

	var matches []vector.Match
	switch req.Method {
	case MethodDiametric:
		matches, err = vector.FindDiametricallyOpposite(queries, candidates, req.NumContraVideos,
			g.thresholds.MinDistance, g.thresholds.MinAngle)
	case MethodCentroid:
		matches, err = vector.FindOppositeToCentroid(queries, candidates, req.NumContraVideos)
	default:
		// Validate already rejected anything else.
		err = goerr.Wrap(ErrUnknownMethod, "unhandled method", goerr.V("method", req.Method))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to score candidates")
	}

	results := make([]*models.ContraVideo, 0, len(matches))
	for _, m := range matches {
		results = append(results, &models.ContraVideo{
			EnrichedVideo: pool[m.Index],
			Score: models.ContraScore{
				Distance: m.Distance,
				Angle:    m.Angle,
				Method:   string(req.Method),
			},
		})
	}

	monitoring.FeedLatency.Observe(time.Since(start).Seconds())
	logger.Info("contra feed complete",
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)))
	return results, nil
}

// AnalyzeVideo runs a feed for a single input and summarizes the results.
func (g *Generator) AnalyzeVideo(ctx context.Context, videoID string, opts Options) (*models.Analysis, error) {
	input, err := g.getVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	contraVideos, err := g.GenerateFeed(ctx, Request{VideoIDs: []string{videoID}, Options: opts})
	if err != nil {
		return nil, err
	}

	summary := models.AnalysisSummary{
		InputVideoID:    videoID,
		InputVideoTitle: input.Title,
		NumContraVideos: len(contraVideos),
	}
	if n := len(contraVideos); n > 0 {
		for _, v := range contraVideos {
			summary.AvgDistance += v.Score.Distance
			summary.AvgAngle += v.Score.Angle
		}
		summary.AvgDistance /= float64(n)
		summary.AvgAngle /= float64(n)
	}

	return &models.Analysis{
		Input:        input,
		ContraVideos: contraVideos,
		Summary:      summary,
	}, nil
}

// CompareVideos measures two videos against each other without sampling.
func (g *Generator) CompareVideos(ctx context.Context, id1, id2 string) (*models.Comparison, error) {
	v1, err := g.getVideo(ctx, id1)
	if err != nil {
		return nil, err
	}
	v2, err := g.getVideo(ctx, id2)
	if err != nil {
		return nil, err
	}

	e1, err := g.embeddings.EmbedOne(ctx, v1.EmbeddingText)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed video", goerr.V("video_id", id1))
	}
	e2, err := g.embeddings.EmbedOne(ctx, v2.EmbeddingText)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed video", goerr.V("video_id", id2))
	}

	sim, err := vector.CosineSimilarity(e1, e2)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compare embeddings")
	}
	angle, err := vector.AngleDegrees(e1, e2)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compare embeddings")
	}
	euclidean, err := vector.EuclideanDistance(e1, e2)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compare embeddings")
	}

	return &models.Comparison{
		Video1:            v1,
		Video2:            v2,
		CosineSimilarity:  sim,
		CosineDistance:    1 - sim,
		AngleDegrees:      angle,
		EuclideanDistance: euclidean,
		Relationship:      models.ClassifyAngle(angle),
	}, nil
}

func (g *Generator) Statistics() (*models.Statistics, error) {
	pools, err := g.pools.Count()
	if err != nil {
		return nil, err
	}
	return &models.Statistics{
		CacheDir:           g.pools.Dir(),
		CachedPools:        pools,
		EmbeddingCacheSize: g.embeddings.Len(),
		MinDistance:        g.thresholds.MinDistance,
		MinAngle:           g.thresholds.MinAngle,
	}, nil
}

func (g *Generator) getVideo(ctx context.Context, id string) (*models.EnrichedVideo, error) {
	v, err := g.provider.GetVideo(ctx, id)
	if err != nil {
		if errors.Is(err, youtube.ErrVideoNotFound) {
			return nil, goerr.Wrap(errors.Join(ErrNotFound, err), "could not fetch metadata", goerr.V("video_id", id))
		}
		return nil, goerr.Wrap(err, "failed to fetch video", goerr.V("video_id", id))
	}
	return v, nil
}

func dedupe(videos []*models.EnrichedVideo) []*models.EnrichedVideo {
	seen := make(map[string]struct{}, len(videos))
	out := make([]*models.EnrichedVideo, 0, len(videos))
	for _, v := range videos {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}
	return out
}
