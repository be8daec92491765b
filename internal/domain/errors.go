package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrUnavailable indicates the catalog could not answer (any non-success status or transport failure)
	ErrUnavailable = errors.New("catalog unavailable")

	// ErrMovieNotFound indicates no movie identity could be resolved
	ErrMovieNotFound = errors.New("movie not found")

	// ErrLoadInFlight indicates a listing fetch was dropped by the loading guard
	ErrLoadInFlight = errors.New("listing fetch already in flight")
)
