package embedcache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/m-mizutani/goerr/v2"
)

// Store is the eviction policy behind a Cache.
type Store interface {
	Get(key string) ([]float32, bool)
	Add(key string, vec []float32)
	Len() int
	Purge()
}

// NewStore returns an unbounded store for capacity 0 and an LRU store otherwise.
func NewStore(capacity int) (Store, error) {
	if capacity == 0 {
		return NewUnboundedStore(), nil
	}
	return NewLRUStore(capacity)
}

type unboundedStore struct {
	mu      sync.RWMutex
	entries map[string][]float32
}

// NewUnboundedStore keeps every entry for the lifetime of the process.
func NewUnboundedStore() Store {
	return &unboundedStore{entries: make(map[string][]float32)}
}

func (s *unboundedStore) Get(key string) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vec, ok := s.entries[key]
	return vec, ok
}

func (s *unboundedStore) Add(key string, vec []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = vec
}

func (s *unboundedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *unboundedStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string][]float32)
}

type lruStore struct {
	cache *lru.Cache[string, []float32]
}

// NewLRUStore evicts the least recently used entry once capacity is reached.
func NewLRUStore(capacity int) (Store, error) {
	c, err := lru.New[string, []float32](capacity)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LRU store", goerr.V("capacity", capacity))
	}
	return &lruStore{cache: c}, nil
}

func (s *lruStore) Get(key string) ([]float32, bool) { return s.cache.Get(key) }

func (s *lruStore) Add(key string, vec []float32) { s.cache.Add(key, vec) }

func (s *lruStore) Len() int { return s.cache.Len() }

func (s *lruStore) Purge() { s.cache.Purge() }
