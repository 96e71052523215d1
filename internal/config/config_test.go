package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_defaults(t *testing.T) {
	path := writeConfig(t, "cache:\n  root_dir: /tmp/vc-test\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Cache.MaxSizeMB != 500 {
		t.Errorf("max_size_mb = %d, want 500", cfg.Cache.MaxSizeMB)
	}
	if got := cfg.Cache.GetMaxSizeBytes(); got != 500*1024*1024 {
		t.Errorf("max size bytes = %d, want %d", got, 500*1024*1024)
	}
	if got := cfg.Cache.GetDownloadTimeout(); got != 5*time.Minute {
		t.Errorf("download timeout = %v, want 5m", got)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_overrides(t *testing.T) {
	path := writeConfig(t, `
cache:
  root_dir: /data/cache
  max_size_mb: 100
  download_timeout: 30s
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Cache.RootDir != "/data/cache" {
		t.Errorf("root_dir = %q", cfg.Cache.RootDir)
	}
	if got := cfg.Cache.GetDownloadTimeout(); got != 30*time.Second {
		t.Errorf("download timeout = %v, want 30s", got)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad max size", "cache:\n  max_size_mb: -1\n"},
		{"bad disk percent", "cache:\n  max_disk_usage_percent: 150\n"},
		{"bad duration", "cache:\n  sweep_interval: soon\n"},
		{"bad log level", "logging:\n  level: loud\n"},
		{"bad log format", "logging:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
