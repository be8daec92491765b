package adapter

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/gateway"
	"github.com/mmcdole/marquee/internal/listing"
	"github.com/mmcdole/marquee/internal/tmdb"
)

// TMDBClientConfig converts the tmdb section for the upstream client
func (c *Config) TMDBClientConfig() tmdb.Config {
	return tmdb.Config{
		APIKey:            c.TMDB.APIKey,
		BaseURL:           c.TMDB.BaseURL,
		Timeout:           c.TMDB.Timeout,
		RequestsPerSecond: c.TMDB.RequestsPerSecond,
		Burst:             c.TMDB.Burst,
		CacheSize:         c.TMDB.CacheSize,
		CacheTTL:          c.TMDB.CacheTTL,
		Retries:           c.TMDB.Retries,
		RetryDelay:        c.TMDB.RetryDelay,
	}
}

// GatewayServerConfig converts the gateway section for the proxy server
func (c *Config) GatewayServerConfig() gateway.Config {
	return gateway.Config{
		Addr:        c.Gateway.Listen,
		CacheMaxAge: c.Gateway.CacheMaxAge,
		RateLimit: gateway.RateLimitConfig{
			Enabled: c.Gateway.RateLimit.Enabled,
			RPS:     c.Gateway.RateLimit.RPS,
			Burst:   c.Gateway.RateLimit.Burst,
		},
		ReadTimeout:  c.Gateway.ReadTimeout,
		WriteTimeout: c.Gateway.WriteTimeout,
		IdleTimeout:  c.Gateway.IdleTimeout,
	}
}

// ListingOptions converts the ui section for the listing controller
func (c *Config) ListingOptions() listing.Options {
	return listing.Options{
		ImageBaseURL:   c.TMDB.ImageBaseURL,
		OverviewLength: c.UI.OverviewLength,
	}
}

// directTMDBConfig is the upstream config for a browser without a gateway.
// Failures are shown rather than retried, and only the caller's context
// bounds a request.
func directTMDBConfig(cfg *Config) tmdb.Config {
	upstream := cfg.TMDBClientConfig()
	upstream.Retries = 0
	upstream.Timeout = -1
	return upstream
}

// NewCatalog returns the catalog the client should read from: the gateway
// when one is configured, otherwise TMDB directly.
func NewCatalog(cfg *Config, logger *slog.Logger) (domain.CatalogGateway, error) {
	if cfg.UsesGateway() {
		logger.Info("using catalog gateway", "url", cfg.Catalog.GatewayURL)
		return catalog.NewClient(cfg.Catalog.GatewayURL, nil, logger), nil
	}

	client, err := tmdb.NewClient(directTMDBConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create TMDB client: %w", err)
	}
	logger.Info("using TMDB directly")
	return client, nil
}
