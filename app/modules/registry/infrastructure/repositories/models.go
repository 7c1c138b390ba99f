package registrydb

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Passport is one address's credential bundle within one community.
// Unique on (address, community_id); its primary key is stable across
// resubmissions.
type Passport struct {
	bun.BaseModel `bun:"table:passports,alias:p"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Address     string    `bun:"address,notnull"`
	CommunityID int64     `bun:"community_id,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Stamps []*Stamp `bun:"rel:has-many,join:id=passport_id"`
}

// Stamp is one verifiable credential attached to a passport. Rows are
// immutable; ids grow monotonically in insertion order, which is what the
// cursor pagination protocol anchors on.
type Stamp struct {
	bun.BaseModel `bun:"table:stamps,alias:s"`

	ID         int64           `bun:"id,pk,autoincrement"`
	PassportID int64           `bun:"passport_id,notnull"`
	Provider   string          `bun:"provider,notnull"`
	Hash       string          `bun:"hash"`
	Credential json.RawMessage `bun:"credential,type:jsonb,notnull"`

	Passport *Passport `bun:"rel:belongs-to,join:passport_id=id"`
}

// Score is the scoring outcome for exactly one passport. Score and evidence
// stay NULL while status is PROCESSING; the scoring worker overwrites the row
// in place keyed by passport_id.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:sc"`

	ID                 int64               `bun:"id,pk,autoincrement"`
	PassportID         int64               `bun:"passport_id,notnull,unique"`
	Score              decimal.NullDecimal `bun:"score,type:numeric"`
	Status             string              `bun:"status,notnull"`
	Evidence           json.RawMessage     `bun:"evidence,type:jsonb"`
	Error              *string             `bun:"error"`
	LastScoreTimestamp *time.Time          `bun:"last_score_timestamp"`

	Passport *Passport `bun:"rel:belongs-to,join:passport_id=id"`
}
