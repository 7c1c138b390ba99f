package accountdb

import (
	"context"
	"time"
)

// AccountRepository looks up API consumers.
type AccountRepository interface {
	GetByAPIKeyHash(ctx context.Context, hash string) (*Account, error)
	Create(ctx context.Context, account *Account) error
}

// CommunityRepository resolves scoring configurations. GetForAccount applies
// tenant scoping; Get is reserved for the cross-account analytics surface.
type CommunityRepository interface {
	GetForAccount(ctx context.Context, id int64, accountID int64) (*Community, error)
	Get(ctx context.Context, id int64) (*Community, error)
	Create(ctx context.Context, community *Community) error
}

// NonceRepository issues and atomically consumes single-use nonces.
type NonceRepository interface {
	Create(ctx context.Context, ttl time.Duration) (*Nonce, error)
	// Use marks the nonce consumed. It must be atomic: of two concurrent
	// calls for the same nonce, exactly one succeeds.
	Use(ctx context.Context, nonce string) error
}
