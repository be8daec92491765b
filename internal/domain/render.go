package domain

// Card is one listed item together with its render decorations
type Card struct {
	Item        Item
	Watched     bool
	Rating      string      // Vote average formatted to one decimal
	RatingClass RatingClass // Colour bucket for the rating badge
	Overview    string      // Overview truncated for card display
	PosterURL   string
}

// RatingClass buckets a vote average for display
type RatingClass string

const (
	RatingGood RatingClass = "good"
	RatingMid  RatingClass = "mid"
	RatingBad  RatingClass = "bad"
)

// ClassifyRating maps a 0-10 vote average to its bucket
func ClassifyRating(vote float64) RatingClass {
	switch {
	case vote >= 7:
		return RatingGood
	case vote >= 5:
		return RatingMid
	default:
		return RatingBad
	}
}

// Detail is the render model of the detail view
type Detail struct {
	Item        Item
	Watched     bool
	Rating      string
	Released    string // "Released: YYYY-MM-DD", empty when unknown
	PosterURL   string
	BackdropURL string
	Genres      []string
}

// LoadMoreState is the state of the load-more affordance
type LoadMoreState int

const (
	LoadMoreHidden LoadMoreState = iota
	LoadMoreAvailable
	LoadMoreExhausted
)

// Label returns the text shown on the control
func (s LoadMoreState) Label() string {
	switch s {
	case LoadMoreAvailable:
		return "Load More"
	case LoadMoreExhausted:
		return "No more results"
	default:
		return ""
	}
}

// MessageKind classifies an inline message
type MessageKind int

const (
	MessageError MessageKind = iota
	MessageEmpty
	MessageNotFound
)

// Message is an inline status shown in place of results
type Message struct {
	Kind MessageKind
	Text string
}

// Fixed user-facing messages
var (
	MsgLoadFailed   = Message{Kind: MessageError, Text: "Could not load movies."}
	MsgNoResults    = Message{Kind: MessageEmpty, Text: "No movies found."}
	MsgNotFound     = Message{Kind: MessageNotFound, Text: "Movie not found."}
	MsgDetailFailed = Message{Kind: MessageError, Text: "Could not load movie details."}
)

// WatchlistButtonLabel is the detail view's watchlist button text
func WatchlistButtonLabel(watched bool) string {
	if watched {
		return "Added to Watchlist"
	}
	return "Add to Watchlist"
}
