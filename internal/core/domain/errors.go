package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown connector type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoSourcesEnabled indicates no sources are configured and
	// enabled for the requested search mode. This is the only error the
	// search entry point surfaces to callers: partial backend failures
	// degrade to partial results instead.
	ErrNoSourcesEnabled = errors.New("no sources enabled for mode")

	// ErrAuthRequired indicates the connector requires credentials but
	// none are configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the configured credentials were rejected
	// by the backend.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the backend API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrSearchSuperseded indicates a newer search replaced this one
	// before it completed. Its results are discarded, never surfaced.
	ErrSearchSuperseded = errors.New("search superseded")
)
