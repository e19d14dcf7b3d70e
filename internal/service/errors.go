package service

import "errors"

var (
	// ErrProductNotFound is returned for ids missing from the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidSession is returned for empty or oversized session ids
	ErrInvalidSession = errors.New("invalid session id")

	// ErrStoreUnavailable is returned when a session's saved cart could not
	// be read. The request may be retried.
	ErrStoreUnavailable = errors.New("cart store unavailable")
)
