package accountdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NonceDBImpl is a repository for nonce issuance and consumption.
type NonceDBImpl struct {
	DB *bun.DB
}

var _ NonceRepository = (*NonceDBImpl)(nil)

// Create issues a fresh single-use nonce valid for ttl.
func (db *NonceDBImpl) Create(ctx context.Context, ttl time.Duration) (*Nonce, error) {
	nonce := &Nonce{
		Nonce:     uuid.NewString(),
		ExpiresAt: time.Now().Add(ttl),
	}
	if _, err := db.DB.NewInsert().Model(nonce).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create nonce: %w", err)
	}
	return nonce, nil
}

// Use consumes the nonce in a single guarded UPDATE. The WHERE clause is the
// atomic check-and-mark: two concurrent submissions racing on the same nonce
// resolve to exactly one winner.
func (db *NonceDBImpl) Use(ctx context.Context, nonce string) error {
	result, err := db.DB.NewUpdate().
		Model((*Nonce)(nil)).
		Set("used = TRUE").
		Where("nonce = ? AND used = FALSE AND expires_at > now()", nonce).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to consume nonce: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after nonce update: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNonceNotUsable
	}

	return nil
}
