package weather

import "errors"

var (
	// ErrUpstream is returned when a weather provider answers with a non-success status
	// or cannot be reached.
	ErrUpstream = errors.New("weather provider request failed")

	// ErrLocationNotFound is returned when a city cannot be resolved to coordinates.
	ErrLocationNotFound = errors.New("location not found")

	// ErrNoProvider is returned when the service has no provider to ask.
	ErrNoProvider = errors.New("no weather provider configured")
)
