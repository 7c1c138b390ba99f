package registrydb

import "errors"

// Sentinel errors for the repository layer.
// These are infrastructure-level errors that indicate database state, not business logic failures.
var (
	// ErrPassportNotFound indicates the requested passport row does not exist.
	ErrPassportNotFound = errors.New("passport not found")

	// ErrScoreNotFound indicates no score row exists for the requested
	// (address, community) pair.
	ErrScoreNotFound = errors.New("score not found")
)
