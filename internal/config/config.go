package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/assets-client/pkg/assets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	AssetsEndpoint       string        `mapstructure:"assets_endpoint"`
	AssetsUsername       string        `mapstructure:"assets_username"`
	AssetsPassword       string        `mapstructure:"assets_password"`
	AssetsTimeoutSeconds int64         `mapstructure:"assets_timeout_seconds"`
	AssetsTimeout        time.Duration `mapstructure:"-"`

	WatchesFile         string        `mapstructure:"watches_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	ScanIntervalSeconds int64         `mapstructure:"scan_interval"`
	ScanInterval        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "assets-uploader")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("assets_endpoint", "https://assets.example.com")
	v.SetDefault("assets_username", "guest")
	v.SetDefault("assets_password", "guest")
	v.SetDefault("assets_timeout_seconds", int64(assets.DefaultTimeout/time.Second))
	v.SetDefault("watches_file", "./configs/watches.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("scan_interval", 60) // seconds
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/uploads.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.AssetsEndpoint) == "" {
		return nil, fmt.Errorf("invalid assets_endpoint (must not be empty)")
	}
	if cfg.AssetsTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid assets_timeout_seconds (must be positive seconds)")
	}
	cfg.AssetsTimeout = time.Duration(cfg.AssetsTimeoutSeconds) * time.Second

	if cfg.ScanIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid scan_interval (must be positive seconds)")
	}
	cfg.ScanInterval = time.Duration(cfg.ScanIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// Credentials returns the login settings for assets.New.
func (c *Config) Credentials() assets.Credentials {
	return assets.Credentials{
		Endpoint: c.AssetsEndpoint,
		Username: c.AssetsUsername,
		Password: c.AssetsPassword,
	}
}
