package plain

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/mmcdole/marquee/internal/domain"
)

// DefaultWidth is the wrap width used when none is given
const DefaultWidth = 80

const indent = "    "

// Renderer writes render calls as plain text lines.
// The first write error is kept and later writes are skipped.
type Renderer struct {
	mu    sync.Mutex
	w     io.Writer
	width int
	err   error
}

var _ domain.Renderer = (*Renderer)(nil)

// New creates a renderer writing to w, wrapping text at width columns
func New(w io.Writer, width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{w: w, width: width}
}

// Err returns the first write error, if any
func (r *Renderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) wrap(s string) string {
	wrapped := ansi.Wordwrap(s, r.width-len(indent), "")
	return indent + strings.ReplaceAll(wrapped, "\n", "\n"+indent)
}

func (r *Renderer) RenderHeading(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s\n%s\n", title, strings.Repeat("=", ansi.StringWidth(title)))
}

func (r *Renderer) RenderLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("Loading...\n")
}

func (r *Renderer) RenderCards(cards []domain.Card, appendMode bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, card := range cards {
		r.printf("%s %s  %s [%d]\n", watchIcon(card.Watched), card.Rating, titleWithYear(card.Item), card.Item.ID)
		if card.Overview != "" {
			r.printf("%s\n", r.wrap(card.Overview))
		}
	}
}

func (r *Renderer) RenderWatchState(id int, watched bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if watched {
		r.printf("%s Added %d to watchlist\n", watchIcon(true), id)
	} else {
		r.printf("%s Removed %d from watchlist\n", watchIcon(false), id)
	}
}

func (r *Renderer) RenderDetail(d domain.Detail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s\n", d.Item.Title)
	if d.Released != "" {
		r.printf("%s\n", d.Released)
	}
	r.printf("Rating: %s\n", d.Rating)
	if len(d.Genres) > 0 {
		r.printf("Genres: %s\n", strings.Join(d.Genres, ", "))
	}
	if d.Item.Overview != "" {
		r.printf("\n%s\n\n", r.wrap(d.Item.Overview))
	}
	if d.PosterURL != "" {
		r.printf("Poster: %s\n", d.PosterURL)
	}
	if d.BackdropURL != "" {
		r.printf("Backdrop: %s\n", d.BackdropURL)
	}
	r.printf("[%s]\n", domain.WatchlistButtonLabel(d.Watched))
}

func (r *Renderer) RenderMessage(msg domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s\n", msg.Text)
}

func (r *Renderer) RenderLoadMore(state domain.LoadMoreState) {
	if state == domain.LoadMoreHidden {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("-- %s --\n", state.Label())
}

func watchIcon(watched bool) string {
	if watched {
		return "★"
	}
	return "☆"
}

func titleWithYear(item domain.Item) string {
	if item.ReleaseDate.IsZero() {
		return item.Title
	}
	return item.Title + " (" + strconv.Itoa(item.ReleaseDate.Year()) + ")"
}
