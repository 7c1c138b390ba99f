package accountdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// CommunityDBImpl is a repository for community (scorer) data operations.
type CommunityDBImpl struct {
	DB *bun.DB
}

var _ CommunityRepository = (*CommunityDBImpl)(nil)

// GetForAccount retrieves a community scoped to its owning account.
// A community owned by a different account reads as not found so tenant
// boundaries never leak existence.
func (db *CommunityDBImpl) GetForAccount(ctx context.Context, id int64, accountID int64) (*Community, error) {
	community := &Community{}
	err := db.DB.NewSelect().
		Model(community).
		Where("c.id = ? AND c.account_id = ?", id, accountID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to fetch community %d: %w", id, err)
	}
	return community, nil
}

// Get retrieves a community without account scoping. Reserved for
// researcher-capability analytics and the scoring worker.
func (db *CommunityDBImpl) Get(ctx context.Context, id int64) (*Community, error) {
	community := &Community{}
	err := db.DB.NewSelect().
		Model(community).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to fetch community %d: %w", id, err)
	}
	return community, nil
}

// Create inserts a new community.
func (db *CommunityDBImpl) Create(ctx context.Context, community *Community) error {
	if _, err := db.DB.NewInsert().Model(community).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create community: %w", err)
	}
	return nil
}
