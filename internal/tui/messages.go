package tui

import (
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/preference"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// HeadingMsg sets the results heading
type HeadingMsg struct {
	Title string
}

// LoadingMsg replaces the results with a spinner
type LoadingMsg struct{}

// CardsMsg replaces or extends the rendered cards
type CardsMsg struct {
	Cards  []domain.Card
	Append bool
}

// WatchStateMsg updates one card's watchlist icon
type WatchStateMsg struct {
	ID      int
	Watched bool
}

// DetailMsg opens or refreshes the detail view
type DetailMsg struct {
	Detail domain.Detail
}

// InlineMsg replaces the results with a message
type InlineMsg struct {
	Message domain.Message
}

// LoadMoreMsg redraws the load-more control
type LoadMoreMsg struct {
	State domain.LoadMoreState
}

// ThemeChangedMsg signals a theme switch
type ThemeChangedMsg struct {
	Theme preference.Theme
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
