// Package storage persists candidate pools as JSON files, one per pool size.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"contra-feed/internal/models"
	"contra-feed/shared/monitoring"

	"github.com/gofrs/flock"
	"github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

type PoolCache struct {
	dir    string
	logger *zap.Logger
}

func NewPoolCache(dir string, logger *zap.Logger) (*PoolCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create cache directory", goerr.V("dir", dir))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoolCache{dir: dir, logger: logger}, nil
}

func (p *PoolCache) Dir() string { return p.dir }

// Path is the file holding the pool generated for the given target size.
func (p *PoolCache) Path(size int) string {
	return filepath.Join(p.dir, fmt.Sprintf("random_sample_%d.json", size))
}

// Load returns the cached pool and true, or false when no pool has been saved for size.
func (p *PoolCache) Load(size int) ([]*models.EnrichedVideo, bool, error) {
	path := p.Path(size)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			monitoring.PoolCacheLookups.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		return nil, false, goerr.Wrap(err, "failed to read pool", goerr.V("path", path))
	}

	var videos []*models.EnrichedVideo
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, false, goerr.Wrap(err, "failed to decode pool", goerr.V("path", path))
	}

	monitoring.PoolCacheLookups.WithLabelValues("hit").Inc()
	p.logger.Info("loaded pool from cache", zap.String("path", path), zap.Int("videos", len(videos)))
	return videos, true, nil
}

// Save replaces the pool for size. Writers are serialized across processes by
// a lock file and readers only ever see a complete file.
func (p *PoolCache) Save(size int, videos []*models.EnrichedVideo) error {
	path := p.Path(size)

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return goerr.Wrap(err, "failed to lock pool", goerr.V("path", path))
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("failed to release pool lock", zap.String("path", path), zap.Error(err))
		}
	}()

	if videos == nil {
		videos = []*models.EnrichedVideo{}
	}
	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode pool")
	}

	tmp, err := os.CreateTemp(p.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file", goerr.V("dir", p.dir))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return goerr.Wrap(err, "failed to write pool", goerr.V("path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close pool file", goerr.V("path", tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return goerr.Wrap(err, "failed to replace pool", goerr.V("path", path))
	}

	p.logger.Info("saved pool to cache", zap.String("path", path), zap.Int("videos", len(videos)))
	return nil
}

// Remove deletes the pool for size. A missing pool is not an error.
func (p *PoolCache) Remove(size int) error {
	if err := os.Remove(p.Path(size)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return goerr.Wrap(err, "failed to remove pool", goerr.V("size", size))
	}
	return nil
}

// Count reports how many pool files are cached.
func (p *PoolCache) Count() (int, error) {
	matches, err := filepath.Glob(filepath.Join(p.dir, "random_sample_*.json"))
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list pools", goerr.V("dir", p.dir))
	}
	return len(matches), nil
}
