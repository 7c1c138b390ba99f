package accountdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// AccountDBImpl is a repository for account data operations.
type AccountDBImpl struct {
	DB *bun.DB
}

var _ AccountRepository = (*AccountDBImpl)(nil)

// GetByAPIKeyHash retrieves the account owning the hashed API key.
func (db *AccountDBImpl) GetByAPIKeyHash(ctx context.Context, hash string) (*Account, error) {
	account := &Account{}
	err := db.DB.NewSelect().
		Model(account).
		Where("api_key_hash = ?", hash).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to fetch account by api key: %w", err)
	}
	return account, nil
}

// Create inserts a new account.
func (db *AccountDBImpl) Create(ctx context.Context, account *Account) error {
	if _, err := db.DB.NewInsert().Model(account).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}
