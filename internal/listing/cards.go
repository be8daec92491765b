package listing

import (
	"fmt"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// Image sizes used by the renderers
const (
	PosterSize   = "w500"
	BackdropSize = "original"
)

// DefaultImageBaseURL is the TMDB image CDN root
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/"

// DefaultOverviewLength is the card overview limit in runes
const DefaultOverviewLength = 150

// Options tunes how cards and details are decorated
type Options struct {
	ImageBaseURL   string
	OverviewLength int
}

func (o Options) withDefaults() Options {
	if o.ImageBaseURL == "" {
		o.ImageBaseURL = DefaultImageBaseURL
	}
	if !strings.HasSuffix(o.ImageBaseURL, "/") {
		o.ImageBaseURL += "/"
	}
	if o.OverviewLength <= 0 {
		o.OverviewLength = DefaultOverviewLength
	}
	return o
}

// ImageURL joins the image base, a size and an image path.
// An empty path yields "".
func (o Options) ImageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return o.ImageBaseURL + size + path
}

// TruncateOverview cuts s to limit runes and appends "..." when shortened
func TruncateOverview(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// FormatRating renders a vote average with one decimal
func FormatRating(vote float64) string {
	return fmt.Sprintf("%.1f", vote)
}

// buildCards decorates items for display. Items without a poster are skipped.
func buildCards(items []domain.Item, watched func(int) bool, opts Options) []domain.Card {
	cards := make([]domain.Card, 0, len(items))
	for _, item := range items {
		if !item.HasPoster() {
			continue
		}
		cards = append(cards, domain.Card{
			Item:        item,
			Watched:     watched(item.ID),
			Rating:      FormatRating(item.VoteAverage),
			RatingClass: domain.ClassifyRating(item.VoteAverage),
			Overview:    TruncateOverview(item.Overview, opts.OverviewLength),
			PosterURL:   opts.ImageURL(PosterSize, item.PosterPath),
		})
	}
	return cards
}

func buildDetail(item domain.Item, watched bool, opts Options) domain.Detail {
	d := domain.Detail{
		Item:        item,
		Watched:     watched,
		Rating:      FormatRating(item.VoteAverage),
		PosterURL:   opts.ImageURL(PosterSize, item.PosterPath),
		BackdropURL: opts.ImageURL(BackdropSize, item.BackdropPath),
		Genres:      item.GenreNames(),
	}
	if !item.ReleaseDate.IsZero() {
		d.Released = "Released: " + item.ReleaseDate.String()
	}
	return d
}

// Heading returns the results heading for a query
func Heading(q domain.Query) string {
	switch q.Mode {
	case domain.ModeGenre:
		name, ok := domain.GenreName(q.GenreID)
		if !ok {
			name = "Genre"
		}
		return name + " Movies"
	case domain.ModeSearch:
		return `Search Results for "` + q.Search + `"`
	case domain.ModeWatchlist:
		return "My Watchlist"
	default:
		return "Popular Movies"
	}
}
