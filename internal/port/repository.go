package port

import (
	"time"

	"github.com/stillhour/videocache/internal/domain"
)

// IndexStats summarizes the cache index for diagnostics.
type IndexStats struct {
	EntryCount int64
	TotalBytes int64
}

// EntryRepository persists the advisory cache index used for LRU eviction
// and diagnostics. Implementation errors are non-fatal to callers; the
// filesystem remains the source of truth for cache validity.
type EntryRepository interface {
	// Upsert inserts or replaces the entry for its key.
	Upsert(entry *domain.CacheEntry) error

	// Touch updates the last-access time for a key. Unknown keys are a no-op.
	Touch(key string, at time.Time) error

	// Get returns the entry for a key, or nil if not indexed.
	Get(key string) (*domain.CacheEntry, error)

	// Delete removes the entry for a key. Unknown keys are a no-op.
	Delete(key string) error

	// DeleteAll removes every entry.
	DeleteAll() error

	// EvictionCandidates returns up to limit entries ordered by
	// least-recent access.
	EvictionCandidates(limit int) ([]*domain.CacheEntry, error)

	// Stats returns entry count and summed size.
	Stats() (*IndexStats, error)
}
