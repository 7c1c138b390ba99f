package registrydomain

import "errors"

// Domain errors surfaced to the HTTP layer. Each maps to a fixed status code
// and detail message; anything else is treated as an internal error.
var (
	// ErrInvalidSigner indicates the recovered signing address does not match
	// the submitted address.
	ErrInvalidSigner = errors.New("address does not match signature")

	// ErrInvalidNonce indicates the nonce was never issued, already consumed,
	// or expired.
	ErrInvalidNonce = errors.New("invalid nonce")

	// ErrInvalidLimit indicates a pagination limit above the allowed maximum.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrInvalidCommunityScoreRequest is the deliberately generic failure for
	// score retrieval: a missing score row and an internal query error read
	// the same to callers.
	ErrInvalidCommunityScoreRequest = errors.New("unable to get score for provided community")

	// ErrNotFound indicates the community does not exist or is owned by a
	// different account. Existence is never leaked across tenants.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCursor indicates a malformed or tampered pagination token.
	ErrInvalidCursor = errors.New("invalid cursor token")
)
