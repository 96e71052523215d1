package cacher

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stillhour/videocache/internal/metrics"
	"github.com/stillhour/videocache/internal/port"
	"github.com/stillhour/videocache/internal/util/ratelimiter"
)

// evictionBatchSize bounds how many candidates are pulled per round.
const evictionBatchSize = 10

// Evictor trims the cache back under its limits, least-recently-accessed
// entries first. Runs opportunistically after successful downloads.
type Evictor struct {
	fs      port.FileSystem
	index   port.EntryRepository
	logger  *zap.Logger
	config  *Config
	limiter *ratelimiter.Limiter
}

// NewEvictor creates a new Evictor
func NewEvictor(fs port.FileSystem, index port.EntryRepository, logger *zap.Logger, cfg *Config) *Evictor {
	return &Evictor{
		fs:      fs,
		index:   index,
		logger:  logger,
		config:  cfg,
		limiter: ratelimiter.New(cfg.EvictionInterval),
	}
}

// MaybeEvict runs an eviction pass if the cache is over its limits and the
// pass is not rate-limited. Failures are logged; the cache stays usable
// even when oversized.
func (e *Evictor) MaybeEvict(ctx context.Context) {
	over, err := e.overLimit(0)
	if err != nil {
		e.logger.Warn("failed to check cache limits", zap.Error(err))
		return
	}
	if !over {
		return
	}

	if allowed, wait := e.limiter.Allow(); !allowed {
		e.logger.Debug("eviction rate-limited", zap.Duration("next_in", wait))
		return
	}

	if err := e.evictUntilUnder(ctx); err != nil {
		e.logger.Warn("eviction pass incomplete", zap.Error(err))
	}
}

// evictUntilUnder deletes LRU entries until the cache is back under both
// the size ceiling and the disk usage ceiling.
func (e *Evictor) evictUntilUnder(ctx context.Context) error {
	evictedCount := 0
	evictedBytes := int64(0)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		over, err := e.overLimit(0)
		if err != nil {
			return err
		}
		if !over {
			e.logger.Info("eviction completed",
				zap.Int("evicted_count", evictedCount),
				zap.Int64("evicted_bytes", evictedBytes))
			return nil
		}

		candidates, err := e.candidates()
		if err != nil {
			return fmt.Errorf("failed to get eviction candidates: %w", err)
		}
		if len(candidates) == 0 {
			return fmt.Errorf("cache over limit but no eviction candidates")
		}

		progressed := false
		for _, key := range candidates {
			size, _ := e.fs.EntrySize(key)
			if err := e.fs.DeleteEntry(key); err != nil {
				e.logger.Warn("failed to evict entry", zap.String("key", key), zap.Error(err))
				continue
			}
			if err := e.index.Delete(key); err != nil {
				e.logger.Warn("failed to drop index entry", zap.String("key", key), zap.Error(err))
			}

			progressed = true
			evictedCount++
			evictedBytes += size
			metrics.EvictionsTotal.Inc()
			e.logger.Debug("entry evicted", zap.String("key", key), zap.Int64("size", size))

			if over, err := e.overLimit(0); err == nil && !over {
				break
			}
		}

		if !progressed {
			return fmt.Errorf("eviction made no progress, giving up this pass")
		}
	}
}

// candidates returns the next batch of keys to evict, LRU first. When the
// index is empty (lost or never built) it falls back to modification-time
// order from the directory itself.
func (e *Evictor) candidates() ([]string, error) {
	entries, err := e.index.EvictionCandidates(evictionBatchSize)
	if err != nil {
		e.logger.Warn("index unavailable, falling back to mtime order", zap.Error(err))
	} else if len(entries) > 0 {
		keys := make([]string, 0, len(entries))
		for _, entry := range entries {
			keys = append(keys, entry.Key)
		}
		return keys, nil
	}

	infos, err := e.fs.ListEntries()
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(infos); i++ {
		for j := i; j > 0 && infos[j].ModTime.Before(infos[j-1].ModTime); j-- {
			infos[j], infos[j-1] = infos[j-1], infos[j]
		}
	}
	if len(infos) > evictionBatchSize {
		infos = infos[:evictionBatchSize]
	}
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		keys = append(keys, info.Key)
	}
	return keys, nil
}

// overLimit checks whether the cache plus incoming bytes exceeds the size
// ceiling or the disk usage ceiling.
func (e *Evictor) overLimit(incomingBytes int64) (bool, error) {
	size, err := e.fs.TotalSize()
	if err != nil {
		return false, err
	}
	metrics.CacheSizeBytes.Set(float64(size))

	if size+incomingBytes > e.config.MaxSizeBytes {
		return true, nil
	}

	if e.config.MaxDiskUsagePercent > 0 {
		usage, err := e.fs.GetDiskUsage()
		if err != nil {
			// Disk stats are best-effort; the size ceiling already ruled.
			e.logger.Debug("failed to get disk usage", zap.Error(err))
			return false, nil
		}
		if usage.UsedPct >= e.config.MaxDiskUsagePercent {
			return true, nil
		}
	}

	return false, nil
}
