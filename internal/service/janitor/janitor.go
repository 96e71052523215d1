// Package janitor sweeps debris the cache leaves behind: abandoned
// .downloading temp files and index rows that no longer match the
// directory.
package janitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store is the slice of the cache store the janitor drives.
type Store interface {
	Reconcile() error
}

// FileSystem is the slice of the filesystem adapter the janitor drives.
type FileSystem interface {
	CleanOldTempFiles(olderThan time.Duration) (int, error)
}

// Config contains janitor configuration
type Config struct {
	// SweepInterval is how often cleanup runs
	SweepInterval time.Duration

	// TempFileMaxAge is the maximum age of temp files before cleanup
	TempFileMaxAge time.Duration
}

// DefaultConfig returns default janitor configuration
func DefaultConfig() *Config {
	return &Config{
		SweepInterval:  time.Hour,
		TempFileMaxAge: 24 * time.Hour,
	}
}

// Service runs periodic cache maintenance
type Service struct {
	config *Config
	store  Store
	fs     FileSystem
	logger *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a new janitor Service
func New(cfg *Config, store Store, fs FileSystem, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = time.Hour
	}
	if cfg.TempFileMaxAge == 0 {
		cfg.TempFileMaxAge = 24 * time.Hour
	}

	return &Service{
		config: cfg,
		store:  store,
		fs:     fs,
		logger: logger,
	}
}

// Start starts the janitor and blocks until ctx is cancelled
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("janitor already running")
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.logger.Info("janitor started",
		zap.Duration("sweep_interval", s.config.SweepInterval))

	s.wg.Add(1)
	go s.sweepLoop(ctx)

	<-ctx.Done()
	s.wg.Wait()
	s.logger.Info("janitor stopped")
	return nil
}

// Stop stops the janitor
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.running = false
}

func (s *Service) sweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs one cleanup pass
func (s *Service) Sweep() {
	count, err := s.fs.CleanOldTempFiles(s.config.TempFileMaxAge)
	if err != nil {
		s.logger.Error("failed to clean old temp files", zap.Error(err))
	} else if count > 0 {
		s.logger.Info("cleaned up abandoned temp files", zap.Int("count", count))
	}

	if err := s.store.Reconcile(); err != nil {
		s.logger.Error("failed to reconcile cache index", zap.Error(err))
	}
}
