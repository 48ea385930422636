package cache

import "errors"

var (
	// ErrNotFound is returned when an id has no entry, for example after
	// eviction. Callers should treat it as a state-consistency bug.
	ErrNotFound = errors.New("cache: id not found")

	// ErrExhausted is returned when every id is retained and nothing can
	// be evicted to make room.
	ErrExhausted = errors.New("cache: id space exhausted")

	// ErrInvalidFont is returned when font data cannot be parsed.
	ErrInvalidFont = errors.New("cache: invalid font data")

	// ErrNilImage is returned when a nil image is submitted.
	ErrNilImage = errors.New("cache: nil image")
)
