package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stillhour/videocache/internal/port"
)

// CacheService is the slice of the cache store the HTTP surface exposes.
type CacheService interface {
	IsCached(uri string) bool
	PreCache(ctx context.Context, uri string) (string, error)
	ClearOne(uri string)
	ClearAll(ctx context.Context) error
	TotalSize() (int64, error)
}

// Config contains HTTP server configuration
type Config struct {
	BindAddr      string
	AdminUsername string
	AdminPassword string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		BindAddr:     "127.0.0.1:8710",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // precache requests block on the download
		IdleTimeout:  60 * time.Second,
	}
}

// Server exposes cache diagnostics and admin operations over HTTP
type Server struct {
	config       *Config
	logger       *zap.Logger
	server       *http.Server
	statsHandler *StatsHandler
	adminHandler *AdminHandler
}

// New creates a new HTTP server
func New(cfg *Config, cache CacheService, fs port.FileSystem, index port.EntryRepository, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		config: cfg,
		logger: logger,
	}

	s.statsHandler = NewStatsHandler(cache, fs, index, logger)
	s.adminHandler = NewAdminHandler(cache, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.statsHandler.HandleStats)
	mux.Handle("/metrics", promhttp.Handler())

	adminAuth := BasicAuthMiddleware(cfg.AdminUsername, cfg.AdminPassword, logger)
	mux.HandleFunc("/admin/precache", adminAuth(s.adminHandler.HandlePrecache))
	mux.HandleFunc("/admin/clear", adminAuth(s.adminHandler.HandleClear))

	s.server = &http.Server{
		Addr:         cfg.BindAddr,
		Handler:      LoggingMiddleware(logger)(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
