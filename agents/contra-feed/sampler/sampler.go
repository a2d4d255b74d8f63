// Package sampler assembles candidate pools that approximate a random draw
// from the YouTube catalog. It is a diversity heuristic: search results are
// not uniform over all videos.
package sampler

import (
	"context"
	"math/rand/v2"
	"sync"

	"contra-feed/shared/config"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

const (
	StrategyHybrid   = "hybrid"
	StrategyRandomID = "random_id"

	// Video IDs are 11 characters over this alphabet.
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	idLength   = 11
)

var ErrUnknownStrategy = goerr.New("unknown sampling strategy")

// Searcher is the part of the metadata provider the sampler needs.
type Searcher interface {
	SearchVideos(ctx context.Context, query string, maxResults int) ([]string, error)
	VideoExists(ctx context.Context, id string) (bool, error)
}

type Strategy interface {
	Name() string
	Sample(ctx context.Context, targetSize int) ([]string, error)
}

type Sampler struct {
	strategy Strategy
	logger   *zap.Logger
}

// New selects the configured strategy. A nil rng seeds one from the runtime.
func New(searcher Searcher, cfg *config.SamplerConfig, rng *rand.Rand, logger *zap.Logger) (*Sampler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	src := &lockedRand{rng: rng}

	var strategy Strategy
	switch cfg.Strategy {
	case "", StrategyHybrid:
		strategy = newHybrid(searcher, src, cfg.PrefixLength, logger)
	case StrategyRandomID:
		strategy = newRandomID(searcher, src, cfg.RandomIDAttempts, logger)
	default:
		return nil, goerr.Wrap(ErrUnknownStrategy, "cannot build sampler", goerr.V("strategy", cfg.Strategy))
	}

	return &Sampler{strategy: strategy, logger: logger}, nil
}

func (s *Sampler) Strategy() string { return s.strategy.Name() }

// Sample returns deduplicated candidate IDs in discovery order.
func (s *Sampler) Sample(ctx context.Context, targetSize int) ([]string, error) {
	s.logger.Info("sampling candidates",
		zap.String("strategy", s.strategy.Name()),
		zap.Int("target_size", targetSize))

	ids, err := s.strategy.Sample(ctx, targetSize)
	if err != nil {
		return nil, goerr.Wrap(err, "sampling failed", goerr.V("strategy", s.strategy.Name()))
	}

	s.logger.Info("sampling complete", zap.Int("unique_videos", len(ids)))
	return ids, nil
}

// lockedRand lets one seeded source be shared by the scheduled refresh and CLI calls.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (r *lockedRand) randomString(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := make([]byte, n)
	for i := range b {
		b[i] = idAlphabet[r.rng.IntN(len(idAlphabet))]
	}
	return string(b)
}

// idSet keeps first-seen order while dropping duplicates.
type idSet struct {
	seen map[string]struct{}
	ids  []string
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]struct{})}
}

func (s *idSet) add(ids ...string) int {
	added := 0
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
		added++
	}
	return added
}

func (s *idSet) len() int { return len(s.ids) }
