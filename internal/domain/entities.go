package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Item is a single movie record as returned by the catalog
type Item struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Overview     string      `json:"overview"`
	PosterPath   string      `json:"poster_path,omitempty"`   // Empty when the movie has no poster
	BackdropPath string      `json:"backdrop_path,omitempty"` // Empty when the movie has no backdrop
	VoteAverage  float64     `json:"vote_average"`            // 0-10 audience rating
	ReleaseDate  ReleaseDate `json:"release_date"`

	// Genres is only populated on single-item lookups
	Genres []Genre `json:"genres,omitempty"`
	// GenreIDs is only populated on listing results
	GenreIDs []int `json:"genre_ids,omitempty"`
}

// HasPoster reports whether the item carries a poster reference
func (i Item) HasPoster() bool {
	return i.PosterPath != ""
}

// GenreNames returns the names of the item's genres in order
func (i Item) GenreNames() []string {
	names := make([]string, 0, len(i.Genres))
	for _, g := range i.Genres {
		names = append(names, g.Name)
	}
	return names
}

// Genre is an {id, name} pair
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Page is a page envelope returned by listing queries
type Page struct {
	Page         int    `json:"page"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
	Results      []Item `json:"results"`
}

// releaseDateLayout is the calendar date format used on the wire
const releaseDateLayout = "2006-01-02"

// ReleaseDate is a calendar date that may be absent.
// The zero value means "no release date".
type ReleaseDate struct {
	time.Time
}

// NewReleaseDate builds a ReleaseDate from a calendar date
func NewReleaseDate(year int, month time.Month, day int) ReleaseDate {
	return ReleaseDate{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseReleaseDate parses a YYYY-MM-DD date; an empty string yields the zero value
func ParseReleaseDate(s string) (ReleaseDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ReleaseDate{}, nil
	}
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return ReleaseDate{}, fmt.Errorf("invalid release date %q: %w", s, err)
	}
	return ReleaseDate{t}, nil
}

// String returns the date as YYYY-MM-DD, or "" when absent
func (d ReleaseDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(releaseDateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD" or ""
func (d ReleaseDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" and null
func (d *ReleaseDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = ReleaseDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseReleaseDate(s)
	if err != nil {
		// Upstream occasionally sends partial dates; treat them as absent
		*d = ReleaseDate{}
		return nil
	}
	*d = parsed
	return nil
}

// Mode is the current browsing context
type Mode int

const (
	ModePopular Mode = iota
	ModeGenre
	ModeSearch
	ModeWatchlist
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModePopular:
		return "popular"
	case ModeGenre:
		return "genre"
	case ModeSearch:
		return "search"
	case ModeWatchlist:
		return "watchlist"
	default:
		return "unknown"
	}
}

// Query describes one listing request.
// Only the selector matching Mode is meaningful.
type Query struct {
	Mode    Mode
	GenreID int
	Search  string
	Page    int // <= 0 means the first page
}

// PageOrFirst returns the requested page, defaulting to 1
func (q Query) PageOrFirst() int {
	if q.Page <= 0 {
		return 1
	}
	return q.Page
}
