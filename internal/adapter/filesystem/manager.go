package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stillhour/videocache/internal/port"
)

// tempSuffix marks in-progress downloads; entries only become visible to
// existence checks once renamed to their final name.
const tempSuffix = ".downloading"

// Manager handles cache directory operations. The layout is flat: one file
// per cache key directly under the root.
type Manager struct {
	rootDir    string
	bufferSize int
}

// Ensure Manager implements port.FileSystem
var _ port.FileSystem = (*Manager)(nil)

// NewManager creates a new filesystem manager
func NewManager(rootDir string) *Manager {
	return NewManagerWithBufferSize(rootDir, 1024*1024) // 1MB default
}

// NewManagerWithBufferSize creates a new filesystem manager with custom buffer size
func NewManagerWithBufferSize(rootDir string, bufferSize int) *Manager {
	if bufferSize <= 0 {
		bufferSize = 1024 * 1024
	}
	return &Manager{
		rootDir:    rootDir,
		bufferSize: bufferSize,
	}
}

// RootDir returns the cache root directory
func (m *Manager) RootDir() string {
	return m.rootDir
}

// EnsureRoot creates the cache root if missing
func (m *Manager) EnsureRoot() error {
	if err := os.MkdirAll(m.rootDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache root dir: %w", err)
	}
	return nil
}

// EntryPath returns the on-disk path for a cache key
func (m *Manager) EntryPath(key string) string {
	return filepath.Join(m.rootDir, key)
}

// EntrySize returns the size of the entry file for a key
func (m *Manager) EntrySize(key string) (int64, error) {
	info, err := os.Stat(m.EntryPath(key))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// WriteEntry streams reader to a temp file and renames it into place.
// A failed write leaves no final file behind, only a temp file that the
// janitor sweeps later.
func (m *Manager) WriteEntry(key string, reader io.Reader) (string, int64, error) {
	if err := m.EnsureRoot(); err != nil {
		return "", 0, err
	}

	entryPath := m.EntryPath(key)
	tempPath := entryPath + tempSuffix

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	buf := make([]byte, m.bufferSize)
	written, err := io.CopyBuffer(f, reader, buf)
	if err != nil {
		f.Close()
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tempPath, entryPath); err != nil {
		return "", 0, fmt.Errorf("failed to rename temp file: %w", err)
	}

	return entryPath, written, nil
}

// DeleteEntry removes the file for a key. Missing files are not an error.
func (m *Manager) DeleteEntry(key string) error {
	if err := os.Remove(m.EntryPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ListEntries returns every completed entry file under the root
func (m *Manager) ListEntries() ([]port.EntryInfo, error) {
	dirents, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []port.EntryInfo
	for _, d := range dirents {
		if d.IsDir() || strings.HasSuffix(d.Name(), tempSuffix) {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		entries = append(entries, port.EntryInfo{
			Key:     d.Name(),
			Path:    filepath.Join(m.rootDir, d.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

// TotalSize returns the summed size of all files under the root
func (m *Manager) TotalSize() (int64, error) {
	var size int64
	err := filepath.Walk(m.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	if os.IsNotExist(err) {
		return 0, nil
	}
	return size, err
}

// Reset deletes and recreates the cache root
func (m *Manager) Reset() error {
	if err := os.RemoveAll(m.rootDir); err != nil {
		return fmt.Errorf("failed to remove cache root: %w", err)
	}
	return m.EnsureRoot()
}

// CleanOldTempFiles removes temp files older than the specified duration
func (m *Manager) CleanOldTempFiles(olderThan time.Duration) (int, error) {
	count := 0
	threshold := time.Now().Add(-olderThan)

	dirents, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), tempSuffix) {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(threshold) {
			if removeErr := os.Remove(filepath.Join(m.rootDir, d.Name())); removeErr == nil {
				count++
			}
		}
	}
	return count, nil
}
