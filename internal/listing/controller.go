// Package listing drives paginated movie listings, the watchlist view and
// the detail view on top of a catalog gateway and a renderer.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/watchlist"
)

// MaxTotalPages caps the page count reported upstream
const MaxTotalPages = 500

// CapTotalPages applies MaxTotalPages to an upstream total
func CapTotalPages(upstream int) int {
	return min(upstream, MaxTotalPages)
}

// Session is the listing state owned by a Controller
type Session struct {
	Mode       domain.Mode
	GenreID    int
	Search     string
	Page       int
	TotalPages int
	Loading    bool
	Items      []domain.Item // Everything currently rendered, in order
}

// Query returns the listing query for the session's current page
func (s Session) Query() domain.Query {
	return domain.Query{Mode: s.Mode, GenreID: s.GenreID, Search: s.Search, Page: s.Page}
}

// HasMore reports whether another page can be requested
func (s Session) HasMore() bool {
	return s.Page < s.TotalPages
}

// Controller orchestrates fetch, merge and render cycles.
// All state changes go through its methods.
type Controller struct {
	gateway   domain.CatalogGateway
	watchlist *watchlist.Store
	renderer  domain.Renderer
	opts      Options
	logger    *slog.Logger

	mu      sync.Mutex
	session Session
	detail  *domain.Item // Movie shown in the detail view, nil when closed
}

// NewController creates a controller in popular mode on page 1.
func NewController(gateway domain.CatalogGateway, wl *watchlist.Store, renderer domain.Renderer, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		gateway:   gateway,
		watchlist: wl,
		renderer:  renderer,
		opts:      opts.withDefaults(),
		logger:    logger,
		session:   Session{Mode: domain.ModePopular, Page: 1},
	}
}

// Session returns a snapshot of the listing state
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	s.Items = append([]domain.Item(nil), c.session.Items...)
	return s
}

// LoadPage requests one page for mode and renders it, replacing the
// rendered set or appending to it. While another fetch is outstanding the
// call is dropped and ErrLoadInFlight is returned. Upstream failures are
// rendered as an inline error and returned wrapped.
func (c *Controller) LoadPage(ctx context.Context, mode domain.Mode, q domain.Query, appendMode bool) error {
	if mode == domain.ModeWatchlist {
		return fmt.Errorf("watchlist mode is not paginated")
	}
	q.Mode = mode
	q.Page = q.PageOrFirst()

	c.mu.Lock()
	if c.session.Loading {
		c.mu.Unlock()
		c.logger.Debug("dropped listing fetch while loading", "mode", mode.String(), "page", q.Page)
		return domain.ErrLoadInFlight
	}
	c.session.Loading = true
	c.session.Mode = mode
	c.session.GenreID = 0
	c.session.Search = ""
	switch mode {
	case domain.ModeGenre:
		c.session.GenreID = q.GenreID
	case domain.ModeSearch:
		c.session.Search = q.Search
	}
	if !appendMode {
		c.renderer.RenderHeading(Heading(q))
		c.renderer.RenderLoading()
	}
	c.renderer.RenderLoadMore(domain.LoadMoreHidden)
	c.mu.Unlock()

	page, err := c.gateway.FetchPage(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Loading = false

	if err != nil {
		c.logger.Error("failed to fetch movies", "error", err, "mode", mode.String(), "page", q.Page)
		c.renderer.RenderMessage(domain.MsgLoadFailed)
		return fmt.Errorf("load %s page %d: %w", mode, q.Page, err)
	}

	if appendMode {
		c.session.Items = append(c.session.Items, page.Results...)
	} else {
		c.session.Items = append([]domain.Item(nil), page.Results...)
	}
	c.session.Page = page.Page
	c.session.TotalPages = CapTotalPages(page.TotalPages)

	cards := buildCards(page.Results, c.watchlist.IsWatched, c.opts)
	if !appendMode && len(cards) == 0 {
		c.renderer.RenderMessage(domain.MsgNoResults)
	} else {
		c.renderer.RenderCards(cards, appendMode)
	}
	c.renderLoadMore()

	c.logger.Debug("loaded movies", "mode", mode.String(), "page", c.session.Page,
		"totalPages", c.session.TotalPages, "count", len(page.Results))
	return nil
}

func (c *Controller) renderLoadMore() {
	if c.session.HasMore() {
		c.renderer.RenderLoadMore(domain.LoadMoreAvailable)
	} else {
		c.renderer.RenderLoadMore(domain.LoadMoreExhausted)
	}
}

// ShowPopular switches to the popular listing
func (c *Controller) ShowPopular(ctx context.Context) error {
	return c.LoadPage(ctx, domain.ModePopular, domain.Query{Page: 1}, false)
}

// ShowGenre switches to the listing for one genre
func (c *Controller) ShowGenre(ctx context.Context, genreID int) error {
	return c.LoadPage(ctx, domain.ModeGenre, domain.Query{GenreID: genreID, Page: 1}, false)
}

// Search switches to free-text search results. Blank text is ignored.
func (c *Controller) Search(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return c.LoadPage(ctx, domain.ModeSearch, domain.Query{Search: text, Page: 1}, false)
}

// LoadMore appends the next page of the current listing
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	if s.Mode == domain.ModeWatchlist || !s.HasMore() {
		return nil
	}
	q := s.Query()
	q.Page++
	return c.LoadPage(ctx, s.Mode, q, true)
}

// ShowWatchlist renders the watchlist locally. It never touches the
// gateway and always hides the load-more control.
func (c *Controller) ShowWatchlist() {
	items := c.watchlist.List()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.Mode = domain.ModeWatchlist
	c.session.GenreID = 0
	c.session.Search = ""
	c.session.Items = items

	c.renderer.RenderHeading(Heading(domain.Query{Mode: domain.ModeWatchlist}))
	cards := buildCards(items, func(int) bool { return true }, c.opts)
	if len(cards) == 0 {
		c.renderer.RenderMessage(domain.MsgNoResults)
	} else {
		c.renderer.RenderCards(cards, false)
	}
	c.renderer.RenderLoadMore(domain.LoadMoreHidden)
}

// ActivateWatchlistIcon toggles the rendered movie with id on the watchlist
func (c *Controller) ActivateWatchlistIcon(id int) (watchlist.ToggleResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.session.Items {
		if item.ID != id {
			continue
		}
		result := c.watchlist.Toggle(item)
		c.renderer.RenderWatchState(id, result == watchlist.Added)
		return result, true
	}
	c.logger.Debug("watchlist toggle for movie not on screen", "movieID", id)
	return 0, false
}

// ActivateItem opens the detail view for a rendered movie
func (c *Controller) ActivateItem(ctx context.Context, id int) error {
	return c.OpenDetail(ctx, strconv.Itoa(id))
}

// OpenDetail looks up a movie by its raw identity and renders the detail
// view. A missing or unparseable identity renders "Movie not found."
// without contacting the gateway.
func (c *Controller) OpenDetail(ctx context.Context, rawID string) error {
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil || id <= 0 {
		c.mu.Lock()
		c.detail = nil
		c.renderer.RenderMessage(domain.MsgNotFound)
		c.mu.Unlock()
		return domain.ErrMovieNotFound
	}

	item, err := c.gateway.LookupMovie(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Error("failed to fetch movie details", "error", err, "movieID", id)
		c.detail = nil
		c.renderer.RenderMessage(domain.MsgDetailFailed)
		return fmt.Errorf("lookup movie %d: %w", id, err)
	}

	c.detail = item
	c.renderer.RenderDetail(buildDetail(*item, c.watchlist.IsWatched(item.ID), c.opts))
	return nil
}

// ToggleDetailWatch toggles the movie in the detail view on the watchlist
// and re-renders the view.
func (c *Controller) ToggleDetailWatch() (watchlist.ToggleResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.detail == nil {
		return 0, errors.New("no movie in detail view")
	}
	result := c.watchlist.Toggle(*c.detail)
	c.renderer.RenderDetail(buildDetail(*c.detail, result == watchlist.Added, c.opts))
	return result, nil
}

// CloseDetail forgets the movie in the detail view
func (c *Controller) CloseDetail() {
	c.mu.Lock()
	c.detail = nil
	c.mu.Unlock()
}
