package sqlite

import (
	"database/sql"
	"time"

	"github.com/stillhour/videocache/internal/domain"
	"github.com/stillhour/videocache/internal/port"
)

// Upsert inserts or replaces the entry for its key
func (s *Store) Upsert(entry *domain.CacheEntry) error {
	query := `
		INSERT INTO entries (cache_key, source_uri, size_bytes, downloaded_at, last_access_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			source_uri = excluded.source_uri,
			size_bytes = excluded.size_bytes,
			downloaded_at = excluded.downloaded_at,
			last_access_at = excluded.last_access_at
	`
	_, err := s.db.Exec(query,
		entry.Key, entry.SourceURI, entry.SizeBytes, entry.DownloadedAt, entry.LastAccessAt)
	return err
}

// Touch updates the last-access time for a key
func (s *Store) Touch(key string, at time.Time) error {
	_, err := s.db.Exec(`UPDATE entries SET last_access_at = ? WHERE cache_key = ?`, at, key)
	return err
}

// Get returns the entry for a key, or nil if not indexed
func (s *Store) Get(key string) (*domain.CacheEntry, error) {
	query := `
		SELECT cache_key, source_uri, size_bytes, downloaded_at, last_access_at
		FROM entries
		WHERE cache_key = ?
	`

	entry := &domain.CacheEntry{}
	err := s.db.QueryRow(query, key).Scan(
		&entry.Key, &entry.SourceURI, &entry.SizeBytes, &entry.DownloadedAt, &entry.LastAccessAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Delete removes the entry for a key
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM entries WHERE cache_key = ?`, key)
	return err
}

// DeleteAll removes every entry
func (s *Store) DeleteAll() error {
	_, err := s.db.Exec(`DELETE FROM entries`)
	return err
}

// EvictionCandidates returns up to limit entries ordered by least-recent access
func (s *Store) EvictionCandidates(limit int) ([]*domain.CacheEntry, error) {
	query := `
		SELECT cache_key, source_uri, size_bytes, downloaded_at, last_access_at
		FROM entries
		ORDER BY last_access_at ASC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CacheEntry
	for rows.Next() {
		entry := &domain.CacheEntry{}
		if err := rows.Scan(
			&entry.Key, &entry.SourceURI, &entry.SizeBytes, &entry.DownloadedAt, &entry.LastAccessAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Stats returns entry count and summed size
func (s *Store) Stats() (*port.IndexStats, error) {
	stats := &port.IndexStats{}
	err := s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM entries`).
		Scan(&stats.EntryCount, &stats.TotalBytes)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
