package models

import "errors"

var (
	// ErrInvalidInput marks malformed or missing input: negative counters, empty
	// subjects, missing or misaligned series, non-numeric values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientData is returned when fewer than two points are available
	// where a delta is required.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNoData is returned for subjects the history store has never seen.
	ErrNoData = errors.New("no data")
	// ErrCapacityExceeded is returned when a new subject would exceed the store limit.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)
