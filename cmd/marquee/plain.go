package main

import (
	"context"
	"errors"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/listing"
	"github.com/mmcdole/marquee/internal/plain"
)

// runPlain performs one navigation and prints what it renders.
// Toggle wins over movie, then watchlist, search and genre; popular is the default.
func runPlain(ctx context.Context, c *listing.Controller, r *plain.Renderer, opts options) error {
	var err error
	switch {
	case opts.toggle != "":
		err = toggleWatch(ctx, c, opts.toggle)
	case opts.openMovie:
		err = c.OpenDetail(ctx, opts.movieID)
	case opts.watchlist:
		c.ShowWatchlist()
	case opts.search != "":
		err = c.Search(ctx, opts.search)
	case opts.genreID != 0:
		err = c.ShowGenre(ctx, opts.genreID)
	default:
		err = c.ShowPopular(ctx)
	}

	for page := 1; err == nil && page < opts.pages && c.Session().HasMore(); page++ {
		err = c.LoadMore(ctx)
	}

	// Already rendered as "Movie not found."
	if errors.Is(err, domain.ErrMovieNotFound) {
		err = nil
	}
	if err == nil {
		err = r.Err()
	}
	return err
}

func toggleWatch(ctx context.Context, c *listing.Controller, rawID string) error {
	if err := c.OpenDetail(ctx, rawID); err != nil {
		return err
	}
	_, err := c.ToggleDetailWatch()
	return err
}
