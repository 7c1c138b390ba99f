package accountdb

import "errors"

// Sentinel errors for the repository layer. These are infrastructure-level
// signals; the service layer decides whether they are domain failures.
var (
	// ErrAccountNotFound indicates no account matches the presented API key.
	ErrAccountNotFound = errors.New("account not found")

	// ErrCommunityNotFound indicates the community does not exist or is not
	// visible to the requesting account.
	ErrCommunityNotFound = errors.New("community not found")

	// ErrNonceNotUsable indicates the nonce was never issued, already
	// consumed, or expired.
	ErrNonceNotUsable = errors.New("nonce not usable")
)
