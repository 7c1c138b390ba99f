package registryservice

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/shopspring/decimal"

	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
	registrydb "github.com/trustvector/scorer/app/modules/registry/infrastructure/repositories"
)

// scoreFixture wires a FakeScoreRepo to the ascending cursor semantics over
// fixed score ids. Every row carries its id as the score value so pages are
// easy to assert on.
func scoreFixture(f *FakeScoreRepo, ids []int64) {
	scoreFor := func(id int64) *registrydb.Score {
		return &registrydb.Score{
			ID:         id,
			PassportID: id,
			Status:     string(registrydomain.StatusDone),
			Score:      decimal.NewNullDecimal(decimal.NewFromInt(id)),
			Passport:   &registrydb.Passport{ID: id, Address: "0xabc"},
		}
	}

	f.ListCursorAscFunc = func(ctx context.Context, filter registrydb.ScoreCursorFilter, direction registrydomain.Direction, anchorID int64, limit int) ([]*registrydb.Score, error) {
		var selected []int64
		switch direction {
		case registrydomain.DirectionNext:
			for _, id := range ids {
				if id > anchorID {
					selected = append(selected, id)
				}
			}
			sort.Slice(selected, func(i, j int) bool { return selected[i] < selected[j] })
		case registrydomain.DirectionPrev:
			for _, id := range ids {
				if id < anchorID {
					selected = append(selected, id)
				}
			}
			// Fetched descending nearest-first, shown ascending.
			sort.Slice(selected, func(i, j int) bool { return selected[i] > selected[j] })
			if len(selected) > limit {
				selected = selected[:limit]
			}
			sort.Slice(selected, func(i, j int) bool { return selected[i] < selected[j] })
		default:
			selected = append(selected, ids...)
			sort.Slice(selected, func(i, j int) bool { return selected[i] < selected[j] })
		}
		if len(selected) > limit {
			selected = selected[:limit]
		}

		scores := make([]*registrydb.Score, 0, len(selected))
		for _, id := range selected {
			scores = append(scores, scoreFor(id))
		}
		return scores, nil
	}

	f.ExistsAboveFunc = func(ctx context.Context, filter registrydb.ScoreCursorFilter, id int64) (bool, error) {
		for _, candidate := range ids {
			if candidate > id {
				return true, nil
			}
		}
		return false, nil
	}

	f.ExistsBelowFunc = func(ctx context.Context, filter registrydb.ScoreCursorFilter, id int64) (bool, error) {
		for _, candidate := range ids {
			if candidate < id {
				return true, nil
			}
		}
		return false, nil
	}
}

func scorePageValues(page ScorePage) []int64 {
	var values []int64
	for _, view := range page.Scores {
		if view.Score != nil {
			values = append(values, view.Score.IntPart())
		}
	}
	return values
}

func TestListScoresAnalytics_WalkAscending(t *testing.T) {
	service, f := newTestService(t)
	scoreFixture(f.scores, []int64{1, 2, 3, 4, 5})

	ctx := context.Background()

	page1, err := service.ListScoresAnalytics(ctx, "", 2)
	if err != nil {
		t.Fatalf("ListScoresAnalytics(page 1) error = %v", err)
	}
	if got := scorePageValues(page1); !equalIDs(got, []int64{1, 2}) {
		t.Fatalf("page 1 = %v, want [1 2]", got)
	}
	if page1.NextToken == "" || page1.PrevToken != "" {
		t.Errorf("page 1 tokens: next=%q prev=%q", page1.NextToken, page1.PrevToken)
	}

	page2, err := service.ListScoresAnalytics(ctx, page1.NextToken, 2)
	if err != nil {
		t.Fatalf("ListScoresAnalytics(page 2) error = %v", err)
	}
	if got := scorePageValues(page2); !equalIDs(got, []int64{3, 4}) {
		t.Fatalf("page 2 = %v, want [3 4]", got)
	}

	page3, err := service.ListScoresAnalytics(ctx, page2.NextToken, 2)
	if err != nil {
		t.Fatalf("ListScoresAnalytics(page 3) error = %v", err)
	}
	if got := scorePageValues(page3); !equalIDs(got, []int64{5}) {
		t.Fatalf("page 3 = %v, want [5]", got)
	}
	if page3.NextToken != "" {
		t.Error("page 3 next token present, want none")
	}

	back, err := service.ListScoresAnalytics(ctx, page3.PrevToken, 2)
	if err != nil {
		t.Fatalf("ListScoresAnalytics(back) error = %v", err)
	}
	if got := scorePageValues(back); !equalIDs(got, []int64{3, 4}) {
		t.Fatalf("back page = %v, want [3 4]", got)
	}
}

func TestListScoresAnalytics_InvalidToken(t *testing.T) {
	service, f := newTestService(t)
	scoreFixture(f.scores, []int64{1, 2})

	_, err := service.ListScoresAnalytics(context.Background(), "!!bogus!!", 2)
	if !errors.Is(err, registrydomain.ErrInvalidCursor) {
		t.Fatalf("ListScoresAnalytics() error = %v, want ErrInvalidCursor", err)
	}
}

func TestListScoresAnalytics_RejectsOversizedLimit(t *testing.T) {
	service, f := newTestService(t)
	scoreFixture(f.scores, []int64{1, 2})

	_, err := service.ListScoresAnalytics(context.Background(), "", registrydomain.MaxListLimit+1)
	if !errors.Is(err, registrydomain.ErrInvalidLimit) {
		t.Fatalf("ListScoresAnalytics() error = %v, want ErrInvalidLimit", err)
	}
}

func TestListCommunityScoresAnalytics_UnscopedLookup(t *testing.T) {
	service, f := newTestService(t)
	scoreFixture(f.scores, []int64{1, 2, 3})

	var gotFilter registrydb.ScoreCursorFilter
	base := f.scores.ListCursorAscFunc
	f.scores.ListCursorAscFunc = func(ctx context.Context, filter registrydb.ScoreCursorFilter, direction registrydomain.Direction, anchorID int64, limit int) ([]*registrydb.Score, error) {
		gotFilter = filter
		return base(ctx, filter, direction, anchorID, limit)
	}

	_, err := service.ListCommunityScoresAnalytics(context.Background(), 9, "0xDEF", "", 10)
	if err != nil {
		t.Fatalf("ListCommunityScoresAnalytics() error = %v", err)
	}

	// The analytics path resolves the community without account scoping.
	want := []string{"Get"}
	got := f.communities.Trace()
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("community trace = %v, want %v", got, want)
	}
	if gotFilter.CommunityID == nil || *gotFilter.CommunityID != 9 {
		t.Errorf("filter community = %v, want 9", gotFilter.CommunityID)
	}
	if gotFilter.Address != "0xdef" {
		t.Errorf("filter address = %q, want lowercased", gotFilter.Address)
	}
}

func TestListCommunityScoresAnalytics_UnknownCommunity(t *testing.T) {
	service, f := newTestService(t)

	f.communities.GetFunc = func(ctx context.Context, id int64) (*accountdb.Community, error) {
		return nil, accountdb.ErrCommunityNotFound
	}

	_, err := service.ListCommunityScoresAnalytics(context.Background(), 9, "", "", 10)
	if !errors.Is(err, registrydomain.ErrNotFound) {
		t.Fatalf("ListCommunityScoresAnalytics() error = %v, want ErrNotFound", err)
	}
}
