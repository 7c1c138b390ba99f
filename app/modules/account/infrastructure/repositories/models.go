package accountdb

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Account is an authenticated API consumer. Keys are stored hashed; the
// presented key is hashed at the middleware boundary before lookup.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Name       string    `bun:"name,notnull"`
	APIKeyHash string    `bun:"api_key_hash,notnull,unique"`
	Researcher bool      `bun:"researcher,notnull,default:false"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Community is a tenant-owned scoring configuration (a "scorer").
type Community struct {
	bun.BaseModel `bun:"table:communities,alias:c"`

	ID               int64                      `bun:"id,pk,autoincrement"`
	AccountID        int64                      `bun:"account_id,notnull"`
	Name             string                     `bun:"name,notnull"`
	Description      string                     `bun:"description"`
	RequireSignature bool                       `bun:"require_signature,notnull,default:false"`
	Weights          map[string]decimal.Decimal `bun:"weights,type:jsonb"`
	CreatedAt        time.Time                  `bun:"created_at,notnull,default:current_timestamp"`
}

// Nonce is a single-use anti-replay token issued with a signing message.
type Nonce struct {
	bun.BaseModel `bun:"table:nonces,alias:n"`

	Nonce     string    `bun:"nonce,pk"`
	Used      bool      `bun:"used,notnull,default:false"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
}
