package registrydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
)

// ScoreDBImpl is a repository for score data operations.
type ScoreDBImpl struct {
	DB *bun.DB
}

var _ ScoreRepository = (*ScoreDBImpl)(nil)

// UpsertProcessing resets the passport's score row to the pending state.
// Keyed by the unique passport_id constraint, a resubmission lands on the
// existing row and overwrites any prior terminal state.
func (db *ScoreDBImpl) UpsertProcessing(ctx context.Context, passportID int64) (*Score, error) {
	score := &Score{
		PassportID: passportID,
		Status:     string(registrydomain.StatusProcessing),
	}

	_, err := db.DB.NewInsert().
		Model(score).
		On("CONFLICT (passport_id) DO UPDATE").
		Set("score = NULL, status = EXCLUDED.status, evidence = NULL, error = NULL").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert processing score for passport %d: %w", passportID, err)
	}

	return score, nil
}

// FinalizeDone writes the terminal DONE state. The upsert tolerates the task
// running before the submission's pending row is visible; last write wins.
func (db *ScoreDBImpl) FinalizeDone(ctx context.Context, passportID int64, value decimal.Decimal, evidence []byte) error {
	score := &Score{
		PassportID: passportID,
		Score:      decimal.NewNullDecimal(value),
		Status:     string(registrydomain.StatusDone),
		Evidence:   evidence,
	}

	_, err := db.DB.NewInsert().
		Model(score).
		On("CONFLICT (passport_id) DO UPDATE").
		Set("score = EXCLUDED.score, status = EXCLUDED.status, evidence = EXCLUDED.evidence, error = NULL, last_score_timestamp = now()").
		Value("last_score_timestamp", "now()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to finalize score for passport %d: %w", passportID, err)
	}

	return nil
}

// FinalizeError writes the terminal ERROR state with a descriptive detail.
func (db *ScoreDBImpl) FinalizeError(ctx context.Context, passportID int64, errDetail string) error {
	score := &Score{
		PassportID: passportID,
		Status:     string(registrydomain.StatusError),
		Error:      &errDetail,
	}

	_, err := db.DB.NewInsert().
		Model(score).
		On("CONFLICT (passport_id) DO UPDATE").
		Set("score = NULL, status = EXCLUDED.status, evidence = NULL, error = EXCLUDED.error, last_score_timestamp = now()").
		Value("last_score_timestamp", "now()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record score error for passport %d: %w", passportID, err)
	}

	return nil
}

// GetByAddress retrieves the score for an (address, community) pair together
// with its passport.
func (db *ScoreDBImpl) GetByAddress(ctx context.Context, address string, communityID int64) (*Score, error) {
	score := &Score{}
	err := db.DB.NewSelect().
		Model(score).
		Relation("Passport").
		Where("passport.address = ? AND passport.community_id = ?", address, communityID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to fetch score for %s in community %d: %w", address, communityID, err)
	}
	return score, nil
}

// ListByCommunity returns a community's scores with offset pagination,
// optionally narrowed to one address.
func (db *ScoreDBImpl) ListByCommunity(ctx context.Context, communityID int64, address string, limit, offset int) ([]*Score, error) {
	var scores []*Score

	query := db.DB.NewSelect().
		Model(&scores).
		Relation("Passport").
		Where("passport.community_id = ?", communityID).
		Order("sc.id ASC").
		Limit(limit).
		Offset(offset)

	if address != "" {
		query = query.Where("passport.address = ?", address)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch scores for community %d: %w", communityID, err)
	}

	return scores, nil
}

// ListCursorAsc fetches one page of scores in ascending id order. This is the
// mirror of the stamp listing with the comparison operators swapped.
func (db *ScoreDBImpl) ListCursorAsc(ctx context.Context, filter ScoreCursorFilter, direction registrydomain.Direction, anchorID int64, limit int) ([]*Score, error) {
	var scores []*Score

	query := db.DB.NewSelect().
		Model(&scores).
		Relation("Passport").
		Limit(limit)
	query = applyScoreFilter(query, filter)

	switch direction {
	case registrydomain.DirectionNext:
		query = query.Where("sc.id > ?", anchorID).Order("sc.id ASC")
	case registrydomain.DirectionPrev:
		query = query.Where("sc.id < ?", anchorID).Order("sc.id DESC")
	default:
		query = query.Order("sc.id ASC")
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch score page: %w", err)
	}

	if direction == registrydomain.DirectionPrev {
		for i, j := 0, len(scores)-1; i < j; i, j = i+1, j-1 {
			scores[i], scores[j] = scores[j], scores[i]
		}
	}

	return scores, nil
}

// ExistsAbove probes whether any score matching the filter has an id higher than id.
func (db *ScoreDBImpl) ExistsAbove(ctx context.Context, filter ScoreCursorFilter, id int64) (bool, error) {
	query := db.DB.NewSelect().
		Model((*Score)(nil)).
		Join("JOIN passports AS passport ON passport.id = sc.passport_id").
		Where("sc.id > ?", id)
	query = applyScoreFilter(query, filter)

	exists, err := query.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to probe scores above %d: %w", id, err)
	}
	return exists, nil
}

// ExistsBelow probes whether any score matching the filter has an id lower than id.
func (db *ScoreDBImpl) ExistsBelow(ctx context.Context, filter ScoreCursorFilter, id int64) (bool, error) {
	query := db.DB.NewSelect().
		Model((*Score)(nil)).
		Join("JOIN passports AS passport ON passport.id = sc.passport_id").
		Where("sc.id < ?", id)
	query = applyScoreFilter(query, filter)

	exists, err := query.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to probe scores below %d: %w", id, err)
	}
	return exists, nil
}

func applyScoreFilter(query *bun.SelectQuery, filter ScoreCursorFilter) *bun.SelectQuery {
	if filter.CommunityID != nil {
		query = query.Where("passport.community_id = ?", *filter.CommunityID)
	}
	if filter.Address != "" {
		query = query.Where("passport.address = ?", filter.Address)
	}
	return query
}
