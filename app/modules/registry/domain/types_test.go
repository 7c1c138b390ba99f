package registrydomain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestScoreViewJSON_Pending(t *testing.T) {
	view := ScoreView{
		Address: "0xabc",
		Status:  StatusProcessing,
	}

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded["score"] != nil {
		t.Errorf("score = %v, want null while pending", decoded["score"])
	}
	if decoded["status"] != "PROCESSING" {
		t.Errorf("status = %v", decoded["status"])
	}
	if ts, present := decoded["last_score_timestamp"]; !present || ts != nil {
		t.Errorf("last_score_timestamp = %v (present=%t), want explicit null", ts, present)
	}
}

func TestScoreViewJSON_Done(t *testing.T) {
	score := decimal.NewFromFloat(3.75)
	scored := time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC)
	view := ScoreView{
		Address:            "0xabc",
		Score:              &score,
		Status:             StatusDone,
		LastScoreTimestamp: &scored,
	}

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Score              *float64 `json:"score"`
		LastScoreTimestamp *string  `json:"last_score_timestamp"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Score must be a bare JSON number, not decimal's quoted form.
	if decoded.Score == nil || *decoded.Score != 3.75 {
		t.Errorf("score = %v, want 3.75", decoded.Score)
	}
	if decoded.LastScoreTimestamp == nil || *decoded.LastScoreTimestamp != "2025-01-14T09:30:00Z" {
		t.Errorf("last_score_timestamp = %v", decoded.LastScoreTimestamp)
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, status := range []Status{StatusProcessing, StatusDone, StatusError} {
		if !status.IsValid() {
			t.Errorf("%q reported invalid", status)
		}
	}
	if Status("PENDING").IsValid() {
		t.Error("unknown status reported valid")
	}
}
