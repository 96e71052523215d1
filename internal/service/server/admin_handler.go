package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// AdminHandler handles cache administration requests
type AdminHandler struct {
	cache  CacheService
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(cache CacheService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		cache:  cache,
		logger: logger,
	}
}

// HandlePrecache downloads a video into the cache ahead of playback.
// POST /admin/precache?uri=<remote-url> — blocks until the transfer ends.
func (h *AdminHandler) HandlePrecache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uri := r.URL.Query().Get("uri")
	if uri == "" {
		http.Error(w, "Missing uri parameter", http.StatusBadRequest)
		return
	}
	if parsed, err := url.Parse(uri); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		http.Error(w, "Invalid uri parameter", http.StatusBadRequest)
		return
	}

	path, err := h.cache.PreCache(r.Context(), uri)
	if err != nil {
		h.logger.Warn("admin precache failed", zap.String("uri", uri), zap.Error(err))
		http.Error(w, "Precache failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"path": path})
}

// HandleClear clears one entry or the whole cache.
// POST /admin/clear?uri=<remote-url> clears one; without uri clears all.
func (h *AdminHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uri := r.URL.Query().Get("uri")
	if uri != "" {
		h.cache.ClearOne(uri)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.cache.ClearAll(r.Context()); err != nil {
		h.logger.Error("failed to clear cache", zap.Error(err))
		http.Error(w, "Clear failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
