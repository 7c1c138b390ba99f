package registryhandlers

import (
	"context"

	registryservice "github.com/trustvector/scorer/app/modules/registry/application"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
)

// FakeRegistryService provides a programmable stub for the registry service.
// Inject behavior per method and inspect calls via Trace.
type FakeRegistryService struct {
	trace []string

	SigningMessageFunc               func(ctx context.Context) (registryservice.SigningMessageResult, error)
	SubmitPassportFunc               func(ctx context.Context, accountID int64, payload registryservice.SubmitPassportPayload) (registrydomain.ScoreView, error)
	GetScoreFunc                     func(ctx context.Context, accountID, scorerID int64, address string) (registrydomain.ScoreView, error)
	ListScoresFunc                   func(ctx context.Context, accountID, scorerID int64, address string, limit, offset int) ([]registrydomain.ScoreView, error)
	GetStampsFunc                    func(ctx context.Context, address, token string, limit int) (registryservice.StampPage, error)
	ListScoresAnalyticsFunc          func(ctx context.Context, token string, limit int) (registryservice.ScorePage, error)
	ListCommunityScoresAnalyticsFunc func(ctx context.Context, scorerID int64, address, token string, limit int) (registryservice.ScorePage, error)
}

func NewFakeRegistryService() *FakeRegistryService {
	return &FakeRegistryService{trace: []string{}}
}

func (f *FakeRegistryService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of service methods called.
func (f *FakeRegistryService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRegistryService) SigningMessage(ctx context.Context) (registryservice.SigningMessageResult, error) {
	f.record("SigningMessage")
	if f.SigningMessageFunc != nil {
		return f.SigningMessageFunc(ctx)
	}
	return registryservice.SigningMessageResult{}, nil
}

func (f *FakeRegistryService) SubmitPassport(ctx context.Context, accountID int64, payload registryservice.SubmitPassportPayload) (registrydomain.ScoreView, error) {
	f.record("SubmitPassport")
	if f.SubmitPassportFunc != nil {
		return f.SubmitPassportFunc(ctx, accountID, payload)
	}
	return registrydomain.ScoreView{}, nil
}

func (f *FakeRegistryService) GetScore(ctx context.Context, accountID, scorerID int64, address string) (registrydomain.ScoreView, error) {
	f.record("GetScore")
	if f.GetScoreFunc != nil {
		return f.GetScoreFunc(ctx, accountID, scorerID, address)
	}
	return registrydomain.ScoreView{}, nil
}

func (f *FakeRegistryService) ListScores(ctx context.Context, accountID, scorerID int64, address string, limit, offset int) ([]registrydomain.ScoreView, error) {
	f.record("ListScores")
	if f.ListScoresFunc != nil {
		return f.ListScoresFunc(ctx, accountID, scorerID, address, limit, offset)
	}
	return nil, nil
}

func (f *FakeRegistryService) GetStamps(ctx context.Context, address, token string, limit int) (registryservice.StampPage, error) {
	f.record("GetStamps")
	if f.GetStampsFunc != nil {
		return f.GetStampsFunc(ctx, address, token, limit)
	}
	return registryservice.StampPage{}, nil
}

func (f *FakeRegistryService) ListScoresAnalytics(ctx context.Context, token string, limit int) (registryservice.ScorePage, error) {
	f.record("ListScoresAnalytics")
	if f.ListScoresAnalyticsFunc != nil {
		return f.ListScoresAnalyticsFunc(ctx, token, limit)
	}
	return registryservice.ScorePage{}, nil
}

func (f *FakeRegistryService) ListCommunityScoresAnalytics(ctx context.Context, scorerID int64, address, token string, limit int) (registryservice.ScorePage, error) {
	f.record("ListCommunityScoresAnalytics")
	if f.ListCommunityScoresAnalyticsFunc != nil {
		return f.ListCommunityScoresAnalyticsFunc(ctx, scorerID, address, token, limit)
	}
	return registryservice.ScorePage{}, nil
}

// Ensure the fake satisfies the Service interface
var _ registryservice.Service = (*FakeRegistryService)(nil)
