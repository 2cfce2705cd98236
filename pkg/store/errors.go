package store

import "errors"

var (
	// ErrEmpty is returned by Load when nothing has been stored yet.
	ErrEmpty = errors.New("configuration store is empty")

	// ErrClosed is returned when a closed backend is used.
	ErrClosed = errors.New("configuration store is closed")
)
