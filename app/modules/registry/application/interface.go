package registryservice

import (
	"context"

	"github.com/shopspring/decimal"

	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
	registrydb "github.com/trustvector/scorer/app/modules/registry/infrastructure/repositories"
)

// SubmitPassportPayload is the submission request after boundary decoding.
type SubmitPassportPayload struct {
	Address   string
	ScorerID  int64
	Nonce     string
	Signature string
}

// SigningMessageResult pairs the message to sign with its single-use nonce.
type SigningMessageResult struct {
	Message string
	Nonce   string
}

// StampPage is one page of the descending stamp walk. Tokens are already
// encoded; the handler only wraps them into absolute URLs.
type StampPage struct {
	Stamps    []registrydomain.StampCredential
	NextToken string
	PrevToken string
}

// ScorePage is one page of the ascending analytics walk.
type ScorePage struct {
	Scores    []registrydomain.ScoreView
	NextToken string
	PrevToken string
}

// Service is the scoring registry's application surface, one method per
// endpoint.
type Service interface {
	SigningMessage(ctx context.Context) (SigningMessageResult, error)
	SubmitPassport(ctx context.Context, accountID int64, payload SubmitPassportPayload) (registrydomain.ScoreView, error)
	GetScore(ctx context.Context, accountID, scorerID int64, address string) (registrydomain.ScoreView, error)
	ListScores(ctx context.Context, accountID, scorerID int64, address string, limit, offset int) ([]registrydomain.ScoreView, error)
	GetStamps(ctx context.Context, address, token string, limit int) (StampPage, error)
	ListScoresAnalytics(ctx context.Context, token string, limit int) (ScorePage, error)
	ListCommunityScoresAnalytics(ctx context.Context, scorerID int64, address, token string, limit int) (ScorePage, error)
}

// QueueService enqueues asynchronous scoring work. Enqueue must return as
// soon as the job is durably recorded, never waiting on execution.
type QueueService interface {
	EnqueueScorePassport(ctx context.Context, communityID int64, address string) error
}

// Scorer computes a numeric score and its evidence from a community's
// configuration and the passport's current stamps. The math is a black box
// to the pipeline.
type Scorer interface {
	ComputeScore(ctx context.Context, community *accountdb.Community, stamps []*registrydb.Stamp) (decimal.Decimal, *registrydomain.Evidence, error)
}
