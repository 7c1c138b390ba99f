package registrydomain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a score computation.
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusDone       Status = "DONE"
	StatusError      Status = "ERROR"
)

// IsValid reports whether s is one of the known score statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusProcessing, StatusDone, StatusError:
		return true
	}
	return false
}

// Address is a lowercased blockchain address.
type Address string

// ScoreView is the externally visible shape of a score record.
// Score stays null while the asynchronous computation is in flight.
type ScoreView struct {
	Address            Address              `json:"address"`
	Score              *decimal.Decimal     `json:"score"`
	Status             Status               `json:"status"`
	Evidence           *Evidence            `json:"evidence"`
	LastScoreTimestamp *time.Time           `json:"-"`
	Error              *string              `json:"error,omitempty"`
}

// MarshalJSON renders Score as a bare JSON number (decimal.Decimal quotes it
// by default) and LastScoreTimestamp as an ISO-8601 string or null.
func (v ScoreView) MarshalJSON() ([]byte, error) {
	type alias ScoreView

	score := json.RawMessage("null")
	if v.Score != nil {
		score = json.RawMessage(v.Score.String())
	}

	var ts *string
	if v.LastScoreTimestamp != nil {
		s := v.LastScoreTimestamp.UTC().Format(time.RFC3339Nano)
		ts = &s
	}

	return json.Marshal(struct {
		alias
		Score              json.RawMessage `json:"score"`
		LastScoreTimestamp *string         `json:"last_score_timestamp"`
	}{alias(v), score, ts})
}

// Evidence explains how a score was computed. ProviderPoints maps each
// distinct credential provider to the points it contributed.
type Evidence struct {
	Type           string                     `json:"type"`
	RawScore       decimal.Decimal            `json:"rawScore"`
	ProviderPoints map[string]decimal.Decimal `json:"providerPoints,omitempty"`
}

// StampCredential is one entry of the stamp listing envelope.
type StampCredential struct {
	Version    string          `json:"version"`
	Credential json.RawMessage `json:"credential"`
}

// MaxListLimit caps page sizes on every paginated endpoint.
const MaxListLimit = 1000
