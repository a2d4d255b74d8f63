package embedcache_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"contra-feed/internal/models"
	"contra-feed/shared/embedcache"

	"github.com/m-mizutani/gt"
)

type countingEmbedder struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func newCountingEmbedder() *countingEmbedder {
	return &countingEmbedder{calls: make(map[string]int)}
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	e.calls[text]++
	return []float32{float32(len(text)), 1, 0}, nil
}

func (e *countingEmbedder) Dimension() int { return 3 }
func (e *countingEmbedder) Model() string  { return "counting" }

func (e *countingEmbedder) total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		n += c
	}
	return n
}

func video(id, text string) *models.EnrichedVideo {
	return &models.EnrichedVideo{Video: models.Video{ID: id}, EmbeddingText: text}
}

func TestEmbedOne(t *testing.T) {
	emb := newCountingEmbedder()
	c := embedcache.New(emb, nil, nil)
	ctx := context.Background()

	first, err := c.EmbedOne(ctx, "knitting basics")
	gt.NoError(t, err).Required()
	second, err := c.EmbedOne(ctx, "knitting basics")
	gt.NoError(t, err).Required()

	gt.Value(t, second).Equal(first)
	gt.Value(t, emb.total()).Equal(1)
	gt.Value(t, c.Len()).Equal(1)
}

func TestEmbedOneBlankText(t *testing.T) {
	emb := newCountingEmbedder()
	c := embedcache.New(emb, nil, nil)

	vec, err := c.EmbedOne(context.Background(), "   \n\t")
	gt.NoError(t, err).Required()
	gt.Value(t, vec).Equal([]float32{0, 0, 0})
	gt.Value(t, emb.total()).Equal(0)
}

func TestEmbedBatch(t *testing.T) {
	emb := newCountingEmbedder()
	c := embedcache.New(emb, nil, nil)
	ctx := context.Background()

	// text already cached through EmbedOne is not sent again
	_, err := c.EmbedOne(ctx, "shared text")
	gt.NoError(t, err).Required()

	videos := []*models.EnrichedVideo{
		video("aaaaaaaaaaa", "shared text"),
		video("bbbbbbbbbbb", "other text"),
		video("ccccccccccc", "shared text"),
	}
	vecs, err := c.EmbedBatch(ctx, videos)
	gt.NoError(t, err).Required()
	gt.Array(t, vecs).Length(3)
	gt.Value(t, vecs[0]).Equal(vecs[2])
	gt.Value(t, emb.total()).Equal(2)

	_, err = c.EmbedBatch(ctx, videos)
	gt.NoError(t, err).Required()
	gt.Value(t, emb.total()).Equal(2)

	c.Purge()
	gt.Value(t, c.Len()).Equal(0)
}

func TestEmbedBatchError(t *testing.T) {
	sentinel := errors.New("model offline")
	emb := newCountingEmbedder()
	emb.err = sentinel
	c := embedcache.New(emb, nil, nil)

	_, err := c.EmbedBatch(context.Background(), []*models.EnrichedVideo{video("x", "text")})
	gt.Error(t, err).Is(sentinel)
	gt.Value(t, c.Len()).Equal(0)
}

func TestLRUStore(t *testing.T) {
	store, err := embedcache.NewStore(2)
	gt.NoError(t, err).Required()

	emb := newCountingEmbedder()
	c := embedcache.New(emb, store, nil)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		_, err := c.EmbedOne(ctx, text)
		gt.NoError(t, err).Required()
	}
	gt.Value(t, c.Len()).Equal(2)

	// "one" was evicted and must be recomputed
	_, err = c.EmbedOne(ctx, "one")
	gt.NoError(t, err).Required()
	gt.Value(t, emb.total()).Equal(4)
}

func TestNewStoreRejectsNegativeCapacity(t *testing.T) {
	_, err := embedcache.NewStore(-1)
	gt.Error(t, err)
}

func TestConcurrentEmbedOne(t *testing.T) {
	c := embedcache.New(newCountingEmbedder(), nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.EmbedOne(context.Background(), "parallel")
		}()
	}
	wg.Wait()
	gt.Value(t, c.Len()).Equal(1)
}
