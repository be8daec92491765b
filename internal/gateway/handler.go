// Package gateway implements the HTTP proxy that forwards catalog queries
// to the upstream movie database.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/domain"
)

// upstreamErrorMessage is the only error body clients ever see
const upstreamErrorMessage = "Failed to fetch data from TMDB"

// LegacyPath is the web client's endpoint, kept as an alias
const LegacyPath = "/api/getMovies"

// Handler serves catalog queries from an upstream gateway.
type Handler struct {
	upstream    domain.CatalogGateway
	cacheMaxAge time.Duration
	logger      *slog.Logger
}

// NewHandler creates a Handler. cacheMaxAge feeds the shared-cache directive.
func NewHandler(upstream domain.CatalogGateway, cacheMaxAge time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{upstream: upstream, cacheMaxAge: cacheMaxAge, logger: logger}
}

// RegisterRoutes registers the catalog routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET(catalog.Path, h.handleCatalog)
	r.GET(LegacyPath, h.handleCatalog) // Alias for the web client
	r.GET("/healthz", h.handleHealth)
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleCatalog dispatches on the selector: movieId, then search, then
// genre, else the popular listing.
func (h *Handler) handleCatalog(c *gin.Context) {
	var (
		payload interface{}
		raw     []byte
		err     error
	)

	if rawID := c.Query(catalog.ParamMovieID); rawID != "" {
		var id int
		id, err = strconv.Atoi(rawID)
		if err == nil {
			payload, raw, err = h.lookup(c.Request.Context(), id)
		}
	} else {
		var q domain.Query
		q, err = parseListingQuery(c)
		if err == nil {
			payload, raw, err = h.fetchPage(c.Request.Context(), q)
		}
	}

	if err != nil {
		h.logger.Error("failed to fetch catalog data", "error", err,
			"query", c.Request.URL.RawQuery, "requestID", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": upstreamErrorMessage})
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("s-maxage=%d", int(h.cacheMaxAge.Seconds())))
	if raw != nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// fetchPage returns the upstream body when it is available, else the page
func (h *Handler) fetchPage(ctx context.Context, q domain.Query) (interface{}, []byte, error) {
	if rc, ok := h.upstream.(domain.RawCatalog); ok {
		body, err := rc.FetchPageRaw(ctx, q)
		return nil, body, err
	}
	page, err := h.upstream.FetchPage(ctx, q)
	return page, nil, err
}

// lookup returns the upstream body when it is available, else the item
func (h *Handler) lookup(ctx context.Context, id int) (interface{}, []byte, error) {
	if rc, ok := h.upstream.(domain.RawCatalog); ok {
		body, err := rc.LookupMovieRaw(ctx, id)
		return nil, body, err
	}
	item, err := h.upstream.LookupMovie(ctx, id)
	return item, nil, err
}

// parseListingQuery reads the listing selector and page.
// A missing or unusable page means the first page.
func parseListingQuery(c *gin.Context) (domain.Query, error) {
	q := domain.Query{Mode: domain.ModePopular, Page: 1}
	if page, err := strconv.Atoi(c.Query(catalog.ParamPage)); err == nil && page > 0 {
		q.Page = page
	}

	if search := c.Query(catalog.ParamSearch); search != "" {
		q.Mode = domain.ModeSearch
		q.Search = search
		return q, nil
	}

	if raw := c.Query(catalog.ParamGenre); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid genre %q: %w", raw, err)
		}
		q.Mode = domain.ModeGenre
		q.GenreID = id
	}
	return q, nil
}
