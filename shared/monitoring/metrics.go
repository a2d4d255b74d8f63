package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EmbeddingCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contra_embedding_cache_hits_total",
		Help: "Embedding lookups served from cache",
	})

	EmbeddingCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contra_embedding_cache_misses_total",
		Help: "Embedding lookups that required a model call",
	})

	EmbedCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contra_embed_calls_total",
		Help: "Successful embedding model calls",
	})

	// YouTubeRequests is labelled by endpoint (videos, search) and outcome (ok, error, not_found).
	YouTubeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contra_youtube_requests_total",
		Help: "YouTube Data API requests",
	}, []string{"endpoint", "outcome"})

	SamplerDraws = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contra_sampler_draws_total",
		Help: "Sampler query attempts by strategy and result",
	}, []string{"strategy", "result"})

	PoolCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contra_pool_cache_lookups_total",
		Help: "Random pool cache lookups by result (hit, miss)",
	}, []string{"result"})

	FeedLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "contra_feed_duration_seconds",
		Help:    "Time to produce a contra feed",
		Buckets: prometheus.DefBuckets,
	})
)
