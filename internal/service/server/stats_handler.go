package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/stillhour/videocache/internal/port"
)

// StatsHandler serves cache diagnostics
type StatsHandler struct {
	cache  CacheService
	fs     port.FileSystem
	index  port.EntryRepository
	logger *zap.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(cache CacheService, fs port.FileSystem, index port.EntryRepository, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		cache:  cache,
		fs:     fs,
		index:  index,
		logger: logger,
	}
}

// HandleStats returns cache size, index and disk usage as JSON
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := make(map[string]any)
	stats["cache_root"] = h.fs.RootDir()

	size, err := h.cache.TotalSize()
	if err != nil {
		h.logger.Warn("failed to get cache size", zap.Error(err))
	} else {
		stats["cache_size_bytes"] = size
	}

	if idx, err := h.index.Stats(); err != nil {
		h.logger.Warn("failed to get index stats", zap.Error(err))
	} else {
		stats["entry_count"] = idx.EntryCount
		stats["indexed_bytes"] = idx.TotalBytes
	}

	if usage, err := h.fs.GetDiskUsage(); err != nil {
		h.logger.Warn("failed to get disk usage", zap.Error(err))
	} else {
		stats["disk_total_bytes"] = usage.Total
		stats["disk_used_bytes"] = usage.Used
		stats["disk_used_percent"] = usage.UsedPct
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.logger.Warn("failed to encode stats", zap.Error(err))
	}
}
