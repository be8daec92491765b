// Package catalog talks to a marquee gateway over HTTP.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// Gateway query surface
const (
	Path = "/catalog"

	ParamMovieID = "movieId"
	ParamSearch  = "search"
	ParamGenre   = "genre"
	ParamPopular = "popular"
	ParamPage    = "page"
)

// maxErrorBody bounds how much of a failed response is kept for logging
const maxErrorBody = 512

// Client implements domain.CatalogGateway against a gateway's /catalog endpoint
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ domain.CatalogGateway = (*Client)(nil)

// NewClient creates a gateway client. A nil httpClient uses one without a
// timeout; requests are bounded only by their context.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// QueryValues encodes a listing query the way the gateway expects it
func QueryValues(q domain.Query) url.Values {
	v := url.Values{}
	switch q.Mode {
	case domain.ModeSearch:
		v.Set(ParamSearch, q.Search)
	case domain.ModeGenre:
		v.Set(ParamGenre, strconv.Itoa(q.GenreID))
	default:
		v.Set(ParamPopular, "true")
	}
	v.Set(ParamPage, strconv.Itoa(q.PageOrFirst()))
	return v
}

// FetchPage requests one page of listing results
func (c *Client) FetchPage(ctx context.Context, q domain.Query) (*domain.Page, error) {
	var page domain.Page
	if err := c.get(ctx, QueryValues(q), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// LookupMovie requests a single movie with its genres
func (c *Client) LookupMovie(ctx context.Context, id int) (*domain.Item, error) {
	v := url.Values{}
	v.Set(ParamMovieID, strconv.Itoa(id))

	var item domain.Item
	if err := c.get(ctx, v, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// get performs a request and decodes the JSON body into dest.
// Every failure maps to domain.ErrUnavailable.
func (c *Client) get(ctx context.Context, query url.Values, dest interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, Path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("catalog request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("catalog request failed", "error", err)
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("catalog request error", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("%w: API error: %d", domain.ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		c.logger.Error("failed to decode catalog response", "error", err)
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrUnavailable, err)
	}
	return nil
}
