// Package tmdb is the upstream client for The Movie Database v3 API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mmcdole/marquee/internal/domain"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the TMDB v3 API root
const DefaultBaseURL = "https://api.themoviedb.org/3"

const (
	defaultTimeout  = 10 * time.Second
	defaultRPS      = 20
	defaultBurst    = 5
	defaultCacheTTL = 24 * time.Hour
	defaultRetryGap = 250 * time.Millisecond
)

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("TMDB API key not configured")

// Config tunes the upstream client
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration // 0 uses the default, negative disables it
	RequestsPerSecond float64
	Burst             int
	CacheSize         int // 0 disables the response cache
	CacheTTL          time.Duration
	Retries           int // Extra attempts after a 429, 5xx or transport failure
	RetryDelay        time.Duration
}

// Client implements domain.CatalogGateway directly against TMDB.
// Requests share one rate limiter, identical concurrent requests share one
// upstream call, and successful bodies are cached.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *expirable.LRU[string, []byte]
	inflight   singleflight.Group
	retries    int
	retryDelay time.Duration
	logger     *slog.Logger
}

var (
	_ domain.CatalogGateway = (*Client)(nil)
	_ domain.RawCatalog     = (*Client)(nil)
)

// NewClient creates a TMDB client
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	switch {
	case cfg.Timeout == 0:
		cfg.Timeout = defaultTimeout
	case cfg.Timeout < 0:
		cfg.Timeout = 0
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryGap
	}

	c := &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		logger:     logger,
	}
	if cfg.CacheSize > 0 {
		c.cache = expirable.NewLRU[string, []byte](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	return c, nil
}

// FetchPage returns popular, genre or search results for one page
func (c *Client) FetchPage(ctx context.Context, q domain.Query) (*domain.Page, error) {
	body, err := c.FetchPageRaw(ctx, q)
	if err != nil {
		return nil, err
	}

	var page domain.Page
	if err := decode(body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// LookupMovie returns full details, including genre names, for one movie
func (c *Client) LookupMovie(ctx context.Context, id int) (*domain.Item, error) {
	body, err := c.LookupMovieRaw(ctx, id)
	if err != nil {
		return nil, err
	}

	var item domain.Item
	if err := decode(body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// FetchPageRaw returns the TMDB response body for one listing page as-is
func (c *Client) FetchPageRaw(ctx context.Context, q domain.Query) ([]byte, error) {
	path, params := listingRequest(q)
	return c.get(ctx, path, params)
}

// LookupMovieRaw returns the TMDB response body for one movie as-is
func (c *Client) LookupMovieRaw(ctx context.Context, id int) ([]byte, error) {
	return c.get(ctx, "/movie/"+strconv.Itoa(id), url.Values{})
}

// listingRequest maps a listing query onto a TMDB endpoint
func listingRequest(q domain.Query) (string, url.Values) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.PageOrFirst()))

	switch q.Mode {
	case domain.ModeSearch:
		params.Set("query", q.Search)
		return "/search/movie", params
	case domain.ModeGenre:
		params.Set("with_genres", strconv.Itoa(q.GenreID))
		return "/discover/movie", params
	default:
		return "/movie/popular", params
	}
}

// get returns a JSON response body from the cache or from TMDB.
// Bodies that are not valid JSON are errors and are never cached.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	cacheKey := path + "?" + params.Encode()

	if c.cache != nil {
		if body, ok := c.cache.Get(cacheKey); ok {
			c.logger.Debug("tmdb cache hit", "key", cacheKey)
			return body, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	// The call is shared, so it must outlive any one caller's context.
	// Each caller still stops waiting when its own context ends.
	ch := c.inflight.DoChan(cacheKey, func() (interface{}, error) {
		return c.fetchWithRetry(context.WithoutCancel(ctx), path, params)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		c.logger.Debug("tmdb caller gave up", "key", cacheKey, "error", ctx.Err())
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, ctx.Err())
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		c.logger.Debug("tmdb request shared", "key", cacheKey)
	}

	body := res.Val.([]byte)
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: TMDB returned malformed JSON", domain.ErrUnavailable)
	}
	if c.cache != nil {
		c.cache.Add(cacheKey, body)
	}
	return body, nil
}

// fetchWithRetry repeats transient failures up to the configured count
func (c *Client) fetchWithRetry(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.retries == 0 {
		return c.fetch(ctx, path, params)
	}
	return retry.DoWithData(
		func() ([]byte, error) {
			return c.fetch(ctx, path, params)
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.retries+1)),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("retrying tmdb request", "path", path, "attempt", n+1, "error", err)
		}),
	)
}

// statusError is a non-200 upstream response
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("TMDB API error: status %d", e.code)
}

// retryable reports whether err is worth another attempt: rate limiting,
// server errors and transport failures
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrUnavailable, err)
	}

	// Copy so the cache key never carries the API key
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("tmdb request", "path", path, "query", params.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tmdb request failed", "error", err, "path", path)
		return nil, fmt.Errorf("%w: failed to fetch TMDB data: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("tmdb request error", "status", resp.StatusCode, "path", path)
		return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, &statusError{code: resp.StatusCode})
	}
	return body, nil
}

func decode(body []byte, dest interface{}) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: failed to decode TMDB response: %v", domain.ErrUnavailable, err)
	}
	return nil
}
