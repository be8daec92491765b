package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Store   StoreConfig   `mapstructure:"store"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig tells the client where to find the catalog
type CatalogConfig struct {
	GatewayURL string `mapstructure:"gateway_url"` // Empty = talk to TMDB directly
}

// TMDBConfig holds upstream API configuration
type TMDBConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	ImageBaseURL      string        `mapstructure:"image_base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	CacheSize         int           `mapstructure:"cache_size"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	Retries           int           `mapstructure:"retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
}

// GatewayConfig holds proxy server configuration
type GatewayConfig struct {
	Listen       string          `mapstructure:"listen"`
	CacheMaxAge  time.Duration   `mapstructure:"cache_max_age"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
	ReadTimeout  time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout time.Duration   `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration   `mapstructure:"idle_timeout"`
}

// RateLimitConfig holds per-client rate limiting
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// StoreConfig holds local persistence configuration
type StoreConfig struct {
	Path string `mapstructure:"path"` // Empty = memory only
}

// UIConfig holds UI configuration
type UIConfig struct {
	OverviewLength  int      `mapstructure:"overview_length"`
	ImageViewer     string   `mapstructure:"image_viewer"` // Empty = auto-detect
	ImageViewerArgs []string `mapstructure:"image_viewer_args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"` // Empty = stderr
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			GatewayURL: "http://localhost:5000",
		},
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p/",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
			Burst:             5,
			CacheSize:         1000,
			CacheTTL:          24 * time.Hour,
			Retries:           2,
			RetryDelay:        250 * time.Millisecond,
		},
		Gateway: GatewayConfig{
			Listen:      ":5000",
			CacheMaxAge: 24 * time.Hour,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     10,
				Burst:   20,
			},
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  time.Minute,
		},
		Store: StoreConfig{
			Path: defaultDataPath(),
		},
		UI: UIConfig{
			OverviewLength: 150,
		},
		Logging: LoggingConfig{
			File:       defaultLogPath(),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee")
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee", "marquee.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "marquee.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// LoadConfig loads configuration from file and environment.
// Extra directories are searched before the defaults.
func LoadConfig(dirs ...string) (*Config, error) {
	return loadConfig(viper.New(), dirs)
}

func loadConfig(v *viper.Viper, dirs []string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")

	// Environment variable overrides, e.g. MARQUEE_GATEWAY_LISTEN
	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	// The bare variable name used by hosted deployments
	if err := v.BindEnv("tmdb.api_key", "MARQUEE_TMDB_API_KEY", "TMDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding env: %w", err)
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can override keys that
// do not appear in the config file.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("catalog.gateway_url", cfg.Catalog.GatewayURL)

	v.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.timeout", cfg.TMDB.Timeout)
	v.SetDefault("tmdb.requests_per_second", cfg.TMDB.RequestsPerSecond)
	v.SetDefault("tmdb.burst", cfg.TMDB.Burst)
	v.SetDefault("tmdb.cache_size", cfg.TMDB.CacheSize)
	v.SetDefault("tmdb.cache_ttl", cfg.TMDB.CacheTTL)
	v.SetDefault("tmdb.retries", cfg.TMDB.Retries)
	v.SetDefault("tmdb.retry_delay", cfg.TMDB.RetryDelay)

	v.SetDefault("gateway.listen", cfg.Gateway.Listen)
	v.SetDefault("gateway.cache_max_age", cfg.Gateway.CacheMaxAge)
	v.SetDefault("gateway.rate_limit.enabled", cfg.Gateway.RateLimit.Enabled)
	v.SetDefault("gateway.rate_limit.rps", cfg.Gateway.RateLimit.RPS)
	v.SetDefault("gateway.rate_limit.burst", cfg.Gateway.RateLimit.Burst)
	v.SetDefault("gateway.read_timeout", cfg.Gateway.ReadTimeout)
	v.SetDefault("gateway.write_timeout", cfg.Gateway.WriteTimeout)
	v.SetDefault("gateway.idle_timeout", cfg.Gateway.IdleTimeout)

	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("ui.overview_length", cfg.UI.OverviewLength)
	v.SetDefault("ui.image_viewer", cfg.UI.ImageViewer)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", cfg.Logging.MaxAgeDays)
}

// SaveConfig writes cfg to config.yaml in the default config directory
// and returns the file written.
func SaveConfig(cfg *Config) (string, error) {
	return saveConfig(cfg, defaultConfigPath())
}

func saveConfig(cfg *Config, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("catalog.gateway_url", cfg.Catalog.GatewayURL)

	v.Set("tmdb.api_key", cfg.TMDB.APIKey)
	v.Set("tmdb.base_url", cfg.TMDB.BaseURL)
	v.Set("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)

	v.Set("gateway.listen", cfg.Gateway.Listen)
	v.Set("gateway.cache_max_age", cfg.Gateway.CacheMaxAge.String())

	v.Set("store.path", cfg.Store.Path)
	v.Set("ui.overview_length", cfg.UI.OverviewLength)
	if cfg.UI.ImageViewer != "" {
		v.Set("ui.image_viewer", cfg.UI.ImageViewer)
		v.Set("ui.image_viewer_args", cfg.UI.ImageViewerArgs)
	}

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configFile, nil
}

// UsesGateway reports whether the client should go through a gateway
func (c *Config) UsesGateway() bool {
	return c.Catalog.GatewayURL != ""
}
