package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the entire application configuration
type Config struct {
	Cache   CacheConfig   `mapstructure:"cache"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	RootDir             string `mapstructure:"root_dir"`
	MaxSizeMB           int    `mapstructure:"max_size_mb"`
	MaxDiskUsagePercent int    `mapstructure:"max_disk_usage_percent"`
	DownloadTimeout     string `mapstructure:"download_timeout"`
	EvictionInterval    string `mapstructure:"eviction_interval"`
	SweepInterval       string `mapstructure:"sweep_interval"`
	TempFileMaxAge      string `mapstructure:"temp_file_max_age"`
	BufferSizeMB        int    `mapstructure:"buffer_size_mb"`
	DatabasePath        string `mapstructure:"database_path"`
}

// HTTPConfig contains HTTP server configuration
type HTTPConfig struct {
	BindAddr      string `mapstructure:"bind_addr"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
	ReadTimeout   string `mapstructure:"read_timeout"`
	WriteTimeout  string `mapstructure:"write_timeout"`
	IdleTimeout   string `mapstructure:"idle_timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from the specified file path
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("cache.root_dir", "/var/lib/videocache/video_cache")
	viper.SetDefault("cache.max_size_mb", 500)
	viper.SetDefault("cache.max_disk_usage_percent", 90)
	viper.SetDefault("cache.download_timeout", "5m")
	viper.SetDefault("cache.eviction_interval", "30s")
	viper.SetDefault("cache.sweep_interval", "1h")
	viper.SetDefault("cache.temp_file_max_age", "24h")
	viper.SetDefault("cache.buffer_size_mb", 1)
	viper.SetDefault("cache.database_path", "")
	viper.SetDefault("http.bind_addr", "127.0.0.1:8710")
	viper.SetDefault("http.admin_username", "admin")
	viper.SetDefault("http.admin_password", "")
	viper.SetDefault("http.read_timeout", "30s")
	viper.SetDefault("http.write_timeout", "5m")
	viper.SetDefault("http.idle_timeout", "60s")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Cache.RootDir == "" {
		return fmt.Errorf("cache.root_dir is required")
	}
	if c.Cache.MaxSizeMB <= 0 {
		return fmt.Errorf("cache.max_size_mb must be positive")
	}
	if c.Cache.MaxDiskUsagePercent <= 0 || c.Cache.MaxDiskUsagePercent > 100 {
		return fmt.Errorf("cache.max_disk_usage_percent must be between 1 and 100")
	}

	durations := map[string]string{
		"cache.download_timeout":  c.Cache.DownloadTimeout,
		"cache.eviction_interval": c.Cache.EvictionInterval,
		"cache.sweep_interval":    c.Cache.SweepInterval,
		"cache.temp_file_max_age": c.Cache.TempFileMaxAge,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// GetMaxSizeBytes returns the cache size ceiling in bytes
func (c *CacheConfig) GetMaxSizeBytes() int64 {
	return int64(c.MaxSizeMB) * 1024 * 1024
}

// GetDownloadTimeout returns the download timeout as time.Duration
func (c *CacheConfig) GetDownloadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.DownloadTimeout)
	if d == 0 {
		return 5 * time.Minute
	}
	return d
}

// GetEvictionInterval returns the eviction interval as time.Duration
func (c *CacheConfig) GetEvictionInterval() time.Duration {
	d, _ := time.ParseDuration(c.EvictionInterval)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetSweepInterval returns the janitor sweep interval as time.Duration
func (c *CacheConfig) GetSweepInterval() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	if d == 0 {
		return time.Hour
	}
	return d
}

// GetTempFileMaxAge returns the temp file max age as time.Duration
func (c *CacheConfig) GetTempFileMaxAge() time.Duration {
	d, _ := time.ParseDuration(c.TempFileMaxAge)
	if d == 0 {
		return 24 * time.Hour
	}
	return d
}

// GetBufferSize returns the write buffer size in bytes
func (c *CacheConfig) GetBufferSize() int {
	if c.BufferSizeMB <= 0 {
		return 1024 * 1024 // 1MB default
	}
	return c.BufferSizeMB * 1024 * 1024
}

// GetReadTimeout returns the read timeout as time.Duration
func (c *HTTPConfig) GetReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetWriteTimeout returns the write timeout as time.Duration
func (c *HTTPConfig) GetWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	if d == 0 {
		return 5 * time.Minute
	}
	return d
}

// GetIdleTimeout returns the idle timeout as time.Duration
func (c *HTTPConfig) GetIdleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	if d == 0 {
		return 60 * time.Second
	}
	return d
}
