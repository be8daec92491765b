package domain

import "context"

// CatalogGateway answers listing queries and single-item lookups.
// Any failure is reported as an error wrapping ErrUnavailable.
type CatalogGateway interface {
	// FetchPage returns one page of popular, genre or search results
	FetchPage(ctx context.Context, q Query) (*Page, error)

	// LookupMovie returns a single movie enriched with genre names
	LookupMovie(ctx context.Context, id int) (*Item, error)
}

// RawCatalog is a CatalogGateway that can also return upstream response
// bodies untouched, so a proxy can forward fields it does not model.
type RawCatalog interface {
	CatalogGateway
	FetchPageRaw(ctx context.Context, q Query) ([]byte, error)
	LookupMovieRaw(ctx context.Context, id int) ([]byte, error)
}

// KeyValueStore is an opaque string key-value substrate
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Renderer draws listing and detail state.
// Implementations must be safe to call from any goroutine.
type Renderer interface {
	RenderHeading(title string)
	RenderLoading()
	// RenderCards replaces the rendered set, or extends it when appendMode is set
	RenderCards(cards []Card, appendMode bool)
	RenderWatchState(id int, watched bool)
	RenderDetail(detail Detail)
	RenderMessage(msg Message)
	RenderLoadMore(state LoadMoreState)
}
