// Package cacher owns the on-disk video cache: existence checks, blocking
// downloads, eviction and clearing. Every failure mode degrades gracefully;
// callers fall back to network streaming when the cache cannot serve.
package cacher

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/stillhour/videocache/internal/cachekey"
	"github.com/stillhour/videocache/internal/domain"
	"github.com/stillhour/videocache/internal/metrics"
	"github.com/stillhour/videocache/internal/port"
)

// Config contains cache store configuration
type Config struct {
	MaxSizeBytes        int64
	MaxDiskUsagePercent float64
	EvictionInterval    time.Duration
}

// DefaultConfig returns default cache store configuration
func DefaultConfig() *Config {
	return &Config{
		MaxSizeBytes:        500 * 1024 * 1024, // 500MB
		MaxDiskUsagePercent: 90,
		EvictionInterval:    30 * time.Second,
	}
}

// Store manages the cache directory through injected filesystem, fetcher
// and index adapters. Concurrent downloads for the same key are coalesced
// onto a single transfer.
type Store struct {
	config  *Config
	fs      port.FileSystem
	fetcher port.Fetcher
	index   port.EntryRepository
	logger  *zap.Logger
	evictor *Evictor

	group    singleflight.Group
	inflight inflightTracker
}

// New creates a new cache Store
func New(
	cfg *Config,
	fs port.FileSystem,
	fetcher port.Fetcher,
	index port.EntryRepository,
	logger *zap.Logger,
) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxSizeBytes == 0 {
		cfg.MaxSizeBytes = 500 * 1024 * 1024
	}
	if cfg.EvictionInterval == 0 {
		cfg.EvictionInterval = 30 * time.Second
	}

	s := &Store{
		config:  cfg,
		fs:      fs,
		fetcher: fetcher,
		index:   index,
		logger:  logger,
	}
	s.evictor = NewEvictor(fs, index, logger, cfg)
	return s
}

// Initialize ensures the cache root exists. Idempotent; a failure is logged
// and not fatal, subsequent lookups simply keep missing.
func (s *Store) Initialize() {
	if err := s.fs.EnsureRoot(); err != nil {
		s.logger.Warn("failed to create cache root, degrading to network playback",
			zap.String("root", s.fs.RootDir()),
			zap.Error(err))
	}
}

// IsCached reports whether uri has a completed cache entry. Only files with
// nonzero size count; a zero-byte file is a failed download, not a hit.
// Stat errors are treated as a miss.
func (s *Store) IsCached(uri string) bool {
	key := cachekey.Derive(uri)
	size, err := s.fs.EntrySize(key)
	if err != nil || size <= 0 {
		metrics.LookupsTotal.WithLabelValues(metrics.ResultMiss).Inc()
		return false
	}

	metrics.LookupsTotal.WithLabelValues(metrics.ResultHit).Inc()

	// Keep LRU order fresh. Index errors never affect the answer.
	if err := s.index.Touch(key, time.Now()); err != nil {
		s.logger.Debug("failed to touch index entry", zap.String("key", key), zap.Error(err))
	}
	return true
}

// CachedPath returns the on-disk path uri would cache to. Pure path
// construction; combine with IsCached to know whether the file is valid.
func (s *Store) CachedPath(uri string) string {
	return s.fs.EntryPath(cachekey.Derive(uri))
}

// Download fetches uri into the cache and returns the local path, blocking
// until the transfer completes. Concurrent calls for the same key share one
// transfer instead of racing to write the same file.
func (s *Store) Download(ctx context.Context, uri string) (string, error) {
	key := cachekey.Derive(uri)

	result, err, shared := s.group.Do(key, func() (any, error) {
		// Registered before anything touches the directory, so ClearAll
		// cannot wipe the root underneath a transfer it missed.
		s.inflight.add()
		defer s.inflight.done()
		return s.download(ctx, key, uri)
	})
	if shared {
		metrics.DownloadsShared.Inc()
	}
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (s *Store) download(ctx context.Context, key, uri string) (string, error) {
	// A prior call may already have populated the entry.
	if size, err := s.fs.EntrySize(key); err == nil && size > 0 {
		return s.fs.EntryPath(key), nil
	}

	if err := s.fs.EnsureRoot(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	start := time.Now()
	body, err := s.fetcher.Fetch(ctx, uri)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues(metrics.StatusError).Inc()
		return "", err
	}
	defer body.Close()

	path, written, err := s.fs.WriteEntry(key, body)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues(metrics.StatusError).Inc()
		return "", fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}
	if written == 0 {
		// Never leave an empty file looking like a valid entry.
		if delErr := s.fs.DeleteEntry(key); delErr != nil {
			s.logger.Warn("failed to remove empty entry", zap.String("key", key), zap.Error(delErr))
		}
		metrics.DownloadsTotal.WithLabelValues(metrics.StatusError).Inc()
		return "", fmt.Errorf("%w: %s", domain.ErrEmptyTransfer, uri)
	}

	now := time.Now()
	if err := s.index.Upsert(&domain.CacheEntry{
		Key:          key,
		SourceURI:    uri,
		SizeBytes:    written,
		DownloadedAt: now,
		LastAccessAt: now,
	}); err != nil {
		s.logger.Warn("failed to index cache entry", zap.String("key", key), zap.Error(err))
	}

	metrics.DownloadsTotal.WithLabelValues(metrics.StatusSuccess).Inc()
	metrics.DownloadBytesTotal.Add(float64(written))
	metrics.DownloadDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("video cached",
		zap.String("key", key),
		zap.Int64("size", written),
		zap.Duration("took", time.Since(start)))

	s.evictor.MaybeEvict(ctx)

	return path, nil
}

// PreCache returns the cached path for uri, downloading it first if needed.
// Any failure comes back as a plain error, the caller's signal to fall back
// to streaming the original URI. Never panics.
func (s *Store) PreCache(ctx context.Context, uri string) (string, error) {
	if s.IsCached(uri) {
		return s.CachedPath(uri), nil
	}

	path, err := s.Download(ctx, uri)
	if err != nil {
		s.logger.Warn("preload failed, caller should fall back to network",
			zap.String("uri", uri),
			zap.Error(err))
		return "", err
	}
	return path, nil
}

// ClearOne deletes the cached file for uri if present. Idempotent; delete
// failures are logged and never surface to the caller.
func (s *Store) ClearOne(uri string) {
	key := cachekey.Derive(uri)
	if err := s.fs.DeleteEntry(key); err != nil {
		s.logger.Warn("failed to delete cache entry", zap.String("key", key), zap.Error(err))
	}
	if err := s.index.Delete(key); err != nil {
		s.logger.Warn("failed to delete index entry", zap.String("key", key), zap.Error(err))
	}
}

// ClearAll wipes and recreates the cache root. In-flight downloads are
// allowed to finish first so the wipe cannot race a partial write.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.inflight.wait(ctx); err != nil {
		return err
	}

	if err := s.fs.Reset(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	if err := s.index.DeleteAll(); err != nil {
		s.logger.Warn("failed to clear index", zap.Error(err))
	}
	metrics.CacheSizeBytes.Set(0)
	s.logger.Info("cache cleared", zap.String("root", s.fs.RootDir()))
	return nil
}

// TotalSize enumerates all files in the cache root and sums their sizes.
func (s *Store) TotalSize() (int64, error) {
	size, err := s.fs.TotalSize()
	if err != nil {
		return 0, err
	}
	metrics.CacheSizeBytes.Set(float64(size))
	return size, nil
}

// Reconcile aligns the index with the directory: files without index rows
// are adopted (modification time stands in for last access), rows without
// files are dropped. Run at startup and periodically by the janitor.
func (s *Store) Reconcile() error {
	entries, err := s.fs.ListEntries()
	if err != nil {
		return err
	}

	onDisk := make(map[string]bool, len(entries))
	for _, e := range entries {
		onDisk[e.Key] = true
		indexed, err := s.index.Get(e.Key)
		if err != nil {
			return err
		}
		if indexed != nil && indexed.SizeBytes == e.Size {
			continue
		}
		if err := s.index.Upsert(&domain.CacheEntry{
			Key:          e.Key,
			SourceURI:    "",
			SizeBytes:    e.Size,
			DownloadedAt: e.ModTime,
			LastAccessAt: e.ModTime,
		}); err != nil {
			return err
		}
	}

	candidates, err := s.index.EvictionCandidates(1 << 20)
	if err != nil {
		return err
	}
	for _, c := range candidates {
		if !onDisk[c.Key] {
			if err := s.index.Delete(c.Key); err != nil {
				return err
			}
		}
	}
	return nil
}
