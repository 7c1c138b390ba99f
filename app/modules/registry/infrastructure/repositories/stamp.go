package registrydb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
)

// StampDBImpl is a repository for stamp data operations.
type StampDBImpl struct {
	DB *bun.DB
}

var _ StampRepository = (*StampDBImpl)(nil)

// CreateBatch inserts a set of stamps. Stamps are immutable once created.
func (db *StampDBImpl) CreateBatch(ctx context.Context, stamps []*Stamp) error {
	if len(stamps) == 0 {
		return nil
	}
	if _, err := db.DB.NewInsert().Model(&stamps).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create stamps: %w", err)
	}
	return nil
}

// ListByPassport returns every stamp of a passport in insertion order.
func (db *StampDBImpl) ListByPassport(ctx context.Context, passportID int64) ([]*Stamp, error) {
	var stamps []*Stamp
	err := db.DB.NewSelect().
		Model(&stamps).
		Where("s.passport_id = ?", passportID).
		Order("s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stamps for passport %d: %w", passportID, err)
	}
	return stamps, nil
}

// ListCursorDesc fetches one page of an address's stamps in descending id
// order. For direction prev the rows are fetched ascending above the anchor
// and reversed in memory to restore display order.
func (db *StampDBImpl) ListCursorDesc(ctx context.Context, address string, direction registrydomain.Direction, anchorID int64, limit int) ([]*Stamp, error) {
	var stamps []*Stamp

	query := db.DB.NewSelect().
		Model(&stamps).
		Join("JOIN passports AS p ON p.id = s.passport_id").
		Where("p.address = ?", address).
		Limit(limit)

	switch direction {
	case registrydomain.DirectionNext:
		// lt because the page walks in descending order
		query = query.Where("s.id < ?", anchorID).Order("s.id DESC")
	case registrydomain.DirectionPrev:
		query = query.Where("s.id > ?", anchorID).Order("s.id ASC")
	default:
		query = query.Order("s.id DESC")
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch stamps for %s: %w", address, err)
	}

	if direction == registrydomain.DirectionPrev {
		reverseStamps(stamps)
	}

	return stamps, nil
}

// ExistsBelow probes whether any stamp of the address has an id lower than id.
func (db *StampDBImpl) ExistsBelow(ctx context.Context, address string, id int64) (bool, error) {
	exists, err := db.DB.NewSelect().
		Model((*Stamp)(nil)).
		Join("JOIN passports AS p ON p.id = s.passport_id").
		Where("p.address = ? AND s.id < ?", address, id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to probe stamps below %d for %s: %w", id, address, err)
	}
	return exists, nil
}

// ExistsAbove probes whether any stamp of the address has an id higher than id.
func (db *StampDBImpl) ExistsAbove(ctx context.Context, address string, id int64) (bool, error) {
	exists, err := db.DB.NewSelect().
		Model((*Stamp)(nil)).
		Join("JOIN passports AS p ON p.id = s.passport_id").
		Where("p.address = ? AND s.id > ?", address, id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to probe stamps above %d for %s: %w", id, address, err)
	}
	return exists, nil
}

func reverseStamps(stamps []*Stamp) {
	for i, j := 0, len(stamps)-1; i < j; i, j = i+1, j-1 {
		stamps[i], stamps[j] = stamps[j], stamps[i]
	}
}
