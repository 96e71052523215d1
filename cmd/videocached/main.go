package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/stillhour/videocache/internal/adapter/filesystem"
	"github.com/stillhour/videocache/internal/adapter/httpfetch"
	"github.com/stillhour/videocache/internal/adapter/sqlite"
	"github.com/stillhour/videocache/internal/config"
	"github.com/stillhour/videocache/internal/logger"
	"github.com/stillhour/videocache/internal/service/cacher"
	"github.com/stillhour/videocache/internal/service/janitor"
	"github.com/stillhour/videocache/internal/service/server"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting videocached",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	// Filesystem adapter
	fsManager := filesystem.NewManagerWithBufferSize(cfg.Cache.RootDir, cfg.Cache.GetBufferSize())
	if err := fsManager.EnsureRoot(); err != nil {
		log.Fatal("failed to create cache root", zap.Error(err))
	}

	// Entry index
	dbPath := cfg.Cache.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(filepath.Dir(cfg.Cache.RootDir), "videocache.db")
	}
	index, err := sqlite.Open(dbPath)
	if err != nil {
		log.Fatal("failed to open index database", zap.Error(err), zap.String("path", dbPath))
	}
	defer index.Close()

	// Fetcher
	fetcher := httpfetch.NewClient(cfg.Cache.GetDownloadTimeout())

	// Cache store
	cacheCfg := &cacher.Config{
		MaxSizeBytes:        cfg.Cache.GetMaxSizeBytes(),
		MaxDiskUsagePercent: float64(cfg.Cache.MaxDiskUsagePercent),
		EvictionInterval:    cfg.Cache.GetEvictionInterval(),
	}
	store := cacher.New(cacheCfg, fsManager, fetcher, index, log)
	store.Initialize()

	if err := store.Reconcile(); err != nil {
		log.Warn("initial index reconcile failed", zap.Error(err))
	}

	// Janitor
	janitorCfg := &janitor.Config{
		SweepInterval:  cfg.Cache.GetSweepInterval(),
		TempFileMaxAge: cfg.Cache.GetTempFileMaxAge(),
	}
	janitorService := janitor.New(janitorCfg, store, fsManager, log)

	// HTTP server
	serverCfg := &server.Config{
		BindAddr:      cfg.HTTP.BindAddr,
		AdminUsername: cfg.HTTP.AdminUsername,
		AdminPassword: cfg.HTTP.AdminPassword,
		ReadTimeout:   cfg.HTTP.GetReadTimeout(),
		WriteTimeout:  cfg.HTTP.GetWriteTimeout(),
		IdleTimeout:   cfg.HTTP.GetIdleTimeout(),
	}
	httpServer := server.New(serverCfg, store, fsManager, index, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := janitorService.Start(ctx); err != nil && err != context.Canceled {
			log.Error("janitor stopped with error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Info("videocached started",
		zap.String("http_addr", cfg.HTTP.BindAddr),
		zap.String("cache_dir", cfg.Cache.RootDir),
		zap.Int64("max_size_bytes", cfg.Cache.GetMaxSizeBytes()),
	)
	<-sigChan

	log.Info("shutdown signal received, stopping services...")

	cancel()
	janitorService.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", zap.Error(err))
	}

	log.Info("videocached stopped")
}
