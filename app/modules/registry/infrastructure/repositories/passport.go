package registrydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// PassportDBImpl is a repository for passport data operations.
type PassportDBImpl struct {
	DB *bun.DB
}

var _ PassportRepository = (*PassportDBImpl)(nil)

// Upsert creates or refreshes the passport row for (address, community).
// The ON CONFLICT clause rides the unique constraint so concurrent identical
// submissions cannot race into duplicate rows; both land on the same id.
func (db *PassportDBImpl) Upsert(ctx context.Context, address string, communityID int64) (*Passport, error) {
	passport := &Passport{
		Address:     address,
		CommunityID: communityID,
	}

	_, err := db.DB.NewInsert().
		Model(passport).
		On("CONFLICT (address, community_id) DO UPDATE").
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert passport for %s in community %d: %w", address, communityID, err)
	}

	return passport, nil
}

// GetByAddress retrieves a passport by its (address, community) key.
func (db *PassportDBImpl) GetByAddress(ctx context.Context, address string, communityID int64) (*Passport, error) {
	passport := &Passport{}
	err := db.DB.NewSelect().
		Model(passport).
		Where("p.address = ? AND p.community_id = ?", address, communityID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPassportNotFound
		}
		return nil, fmt.Errorf("failed to fetch passport for %s in community %d: %w", address, communityID, err)
	}
	return passport, nil
}
