package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/listing"
	"github.com/mmcdole/marquee/internal/preference"
	"github.com/mmcdole/marquee/internal/watchlist"
)

// Command factories for async operations. Listing results reach the model
// through the ChannelRenderer; these commands only report failures.

// controllerCmd runs fn off the update loop. Dropped fetches are silent
// and rendered failures become a status line.
func controllerCmd(ctx context.Context, what string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(ctx)
		if err == nil || errors.Is(err, domain.ErrLoadInFlight) || errors.Is(err, domain.ErrMovieNotFound) {
			return nil
		}
		return ErrMsg{Err: err, Context: what}
	}
}

// ShowPopularCmd loads the popular listing
func ShowPopularCmd(ctx context.Context, c *listing.Controller) tea.Cmd {
	return controllerCmd(ctx, "loading popular movies", c.ShowPopular)
}

// ShowGenreCmd loads the listing for a genre
func ShowGenreCmd(ctx context.Context, c *listing.Controller, genreID int) tea.Cmd {
	return controllerCmd(ctx, "loading genre", func(ctx context.Context) error {
		return c.ShowGenre(ctx, genreID)
	})
}

// SearchCmd loads search results
func SearchCmd(ctx context.Context, c *listing.Controller, text string) tea.Cmd {
	return controllerCmd(ctx, "searching", func(ctx context.Context) error {
		return c.Search(ctx, text)
	})
}

// LoadMoreCmd appends the next page
func LoadMoreCmd(ctx context.Context, c *listing.Controller) tea.Cmd {
	return controllerCmd(ctx, "loading more", c.LoadMore)
}

// ShowWatchlistCmd renders the watchlist
func ShowWatchlistCmd(c *listing.Controller) tea.Cmd {
	return func() tea.Msg {
		c.ShowWatchlist()
		return nil
	}
}

// OpenDetailCmd opens the detail view for a raw movie id
func OpenDetailCmd(ctx context.Context, c *listing.Controller, rawID string) tea.Cmd {
	return controllerCmd(ctx, "loading movie details", func(ctx context.Context) error {
		return c.OpenDetail(ctx, rawID)
	})
}

// ToggleWatchCmd toggles a listed movie on the watchlist
func ToggleWatchCmd(c *listing.Controller, id int) tea.Cmd {
	return func() tea.Msg {
		result, ok := c.ActivateWatchlistIcon(id)
		if !ok {
			return nil
		}
		return watchStatus(result)
	}
}

// ToggleDetailWatchCmd toggles the movie in the detail view
func ToggleDetailWatchCmd(c *listing.Controller) tea.Cmd {
	return func() tea.Msg {
		result, err := c.ToggleDetailWatch()
		if err != nil {
			return nil
		}
		return watchStatus(result)
	}
}

func watchStatus(result watchlist.ToggleResult) StatusMsg {
	if result == watchlist.Added {
		return StatusMsg{Message: "Added to watchlist"}
	}
	return StatusMsg{Message: "Removed from watchlist"}
}

// ImageOpener shows an image URL outside the terminal
type ImageOpener interface {
	Open(url string) error
}

// OpenImageCmd opens a poster or backdrop URL
func OpenImageCmd(opener ImageOpener, url, what string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return ErrMsg{Err: err, Context: "opening " + what}
		}
		return StatusMsg{Message: "Opened " + what}
	}
}

// ToggleThemeCmd flips and persists the theme
func ToggleThemeCmd(prefs *preference.Preferences) tea.Cmd {
	return func() tea.Msg {
		return ThemeChangedMsg{Theme: prefs.ToggleTheme()}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears the status bar after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
