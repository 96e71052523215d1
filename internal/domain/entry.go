package domain

import "time"

// CacheEntry is one row of the advisory cache index. The filesystem stays
// the source of truth for validity; entries only drive eviction order and
// diagnostics.
type CacheEntry struct {
	Key          string
	SourceURI    string
	SizeBytes    int64
	DownloadedAt time.Time
	LastAccessAt time.Time
}
