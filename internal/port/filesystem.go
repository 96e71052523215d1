package port

import (
	"io"
	"time"
)

// DiskUsage represents disk usage statistics for the cache volume.
type DiskUsage struct {
	Total   uint64  // Total disk space in bytes
	Used    uint64  // Used disk space in bytes
	Free    uint64  // Free disk space in bytes
	UsedPct float64 // Used percentage (0-100)
}

// EntryInfo describes one file found in the cache root.
type EntryInfo struct {
	Key     string
	Path    string
	Size    int64
	ModTime time.Time
}

// FileSystem defines the interface for cache directory operations.
type FileSystem interface {
	// RootDir returns the cache root directory
	RootDir() string

	// EnsureRoot creates the cache root if missing. Idempotent.
	EnsureRoot() error

	// EntryPath returns the on-disk path for a cache key.
	// Pure path construction, no filesystem access.
	EntryPath(key string) string

	// EntrySize returns the size of the file for a key.
	// Returns an error if the file does not exist.
	EntrySize(key string) (int64, error)

	// WriteEntry streams reader to a temp file for key and renames it into
	// place on success. Returns the final path and bytes written.
	WriteEntry(key string, reader io.Reader) (string, int64, error)

	// DeleteEntry removes the file for a key. Missing files are not an error.
	DeleteEntry(key string) error

	// ListEntries returns every completed entry file under the root.
	ListEntries() ([]EntryInfo, error)

	// TotalSize returns the summed size of all files under the root.
	TotalSize() (int64, error)

	// Reset deletes and recreates the cache root.
	Reset() error

	// CleanOldTempFiles removes in-progress temp files older than the given
	// age. Returns the number of files deleted.
	CleanOldTempFiles(olderThan time.Duration) (int, error)

	// GetDiskUsage returns disk usage statistics for the cache volume.
	GetDiskUsage() (*DiskUsage, error)
}
