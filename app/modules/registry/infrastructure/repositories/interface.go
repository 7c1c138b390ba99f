package registrydb

import (
	"context"

	"github.com/shopspring/decimal"

	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
)

// PassportRepository persists passports keyed by (address, community).
type PassportRepository interface {
	// Upsert creates the passport if absent, otherwise touches updated_at and
	// returns the existing row. The primary key is stable across calls.
	Upsert(ctx context.Context, address string, communityID int64) (*Passport, error)
	GetByAddress(ctx context.Context, address string, communityID int64) (*Passport, error)
}

// StampRepository reads credential stamps in cursor order and writes the
// ingested credential set for a passport.
type StampRepository interface {
	CreateBatch(ctx context.Context, stamps []*Stamp) error
	ListByPassport(ctx context.Context, passportID int64) ([]*Stamp, error)
	// ListCursorDesc walks the stamps of an address in descending id order.
	// direction next fetches ids below the anchor; prev fetches ids above it
	// ascending and the caller-visible order is restored in memory.
	ListCursorDesc(ctx context.Context, address string, direction registrydomain.Direction, anchorID int64, limit int) ([]*Stamp, error)
	ExistsBelow(ctx context.Context, address string, id int64) (bool, error)
	ExistsAbove(ctx context.Context, address string, id int64) (bool, error)
}

// ScoreCursorFilter narrows the analytics score listing. A nil CommunityID
// spans every community (cross-account analytics).
type ScoreCursorFilter struct {
	CommunityID *int64
	Address     string
}

// ScoreRepository owns the single point of contention of the pipeline: the
// one score row per passport. Every writer goes through an atomic upsert.
type ScoreRepository interface {
	// UpsertProcessing resets the passport's score row to the pending state,
	// creating it on first submission. Exactly one row per passport exists
	// afterwards regardless of concurrent identical submissions.
	UpsertProcessing(ctx context.Context, passportID int64) (*Score, error)
	// FinalizeDone writes the terminal DONE state keyed by passport id.
	FinalizeDone(ctx context.Context, passportID int64, score decimal.Decimal, evidence []byte) error
	// FinalizeError writes the terminal ERROR state keyed by passport id.
	FinalizeError(ctx context.Context, passportID int64, errDetail string) error
	GetByAddress(ctx context.Context, address string, communityID int64) (*Score, error)
	ListByCommunity(ctx context.Context, communityID int64, address string, limit, offset int) ([]*Score, error)
	// ListCursorAsc walks scores in ascending id order (analytics variant of
	// the cursor protocol, mirroring ListCursorDesc with the comparisons
	// swapped).
	ListCursorAsc(ctx context.Context, filter ScoreCursorFilter, direction registrydomain.Direction, anchorID int64, limit int) ([]*Score, error)
	ExistsAbove(ctx context.Context, filter ScoreCursorFilter, id int64) (bool, error)
	ExistsBelow(ctx context.Context, filter ScoreCursorFilter, id int64) (bool, error)
}
