package registryservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
	registrydb "github.com/trustvector/scorer/app/modules/registry/infrastructure/repositories"
	"github.com/trustvector/scorer/app/modules/registry/infrastructure/signer"
)

// RegistryService implements the Service interface.
type RegistryService struct {
	passportRepo  registrydb.PassportRepository
	stampRepo     registrydb.StampRepository
	scoreRepo     registrydb.ScoreRepository
	communityRepo accountdb.CommunityRepository
	nonceRepo     accountdb.NonceRepository

	queue     QueueService
	recoverer signer.Recoverer
	codec     *registrydomain.CursorCodec
	nonceTTL  time.Duration

	logger *slog.Logger
	tracer trace.Tracer
}

var _ Service = (*RegistryService)(nil)

// NewRegistryService creates a new RegistryService.
func NewRegistryService(
	passportRepo registrydb.PassportRepository,
	stampRepo registrydb.StampRepository,
	scoreRepo registrydb.ScoreRepository,
	communityRepo accountdb.CommunityRepository,
	nonceRepo accountdb.NonceRepository,
	queue QueueService,
	recoverer signer.Recoverer,
	codec *registrydomain.CursorCodec,
	nonceTTL time.Duration,
	logger *slog.Logger,
	tracer trace.Tracer,
) *RegistryService {
	return &RegistryService{
		passportRepo:  passportRepo,
		stampRepo:     stampRepo,
		scoreRepo:     scoreRepo,
		communityRepo: communityRepo,
		nonceRepo:     nonceRepo,
		queue:         queue,
		recoverer:     recoverer,
		codec:         codec,
		nonceTTL:      nonceTTL,
		logger:        logger,
		tracer:        tracer,
	}
}

// SigningMessage issues a fresh nonce and the message a wallet must sign.
func (s *RegistryService) SigningMessage(ctx context.Context) (SigningMessageResult, error) {
	ctx, span := s.tracer.Start(ctx, "SigningMessage")
	defer span.End()

	nonce, err := s.nonceRepo.Create(ctx, s.nonceTTL)
	if err != nil {
		return SigningMessageResult{}, fmt.Errorf("failed to issue nonce: %w", err)
	}

	return SigningMessageResult{
		Message: signer.SigningMessage(nonce.Nonce),
		Nonce:   nonce.Nonce,
	}, nil
}

// normalizeLimit applies the default page size and rejects limits above the cap.
func normalizeLimit(limit int) (int, error) {
	if limit == 0 {
		return registrydomain.MaxListLimit, nil
	}
	if limit > registrydomain.MaxListLimit || limit < 0 {
		return 0, registrydomain.ErrInvalidLimit
	}
	return limit, nil
}

func lowerAddress(address string) string {
	return strings.ToLower(address)
}

// scoreToView converts a score row (with its passport loaded) to the
// external view shape.
func scoreToView(score *registrydb.Score) registrydomain.ScoreView {
	view := registrydomain.ScoreView{
		Status:             registrydomain.Status(score.Status),
		LastScoreTimestamp: score.LastScoreTimestamp,
		Error:              score.Error,
	}
	if score.Passport != nil {
		view.Address = registrydomain.Address(score.Passport.Address)
	}
	if score.Score.Valid {
		value := score.Score.Decimal
		view.Score = &value
	}
	if len(score.Evidence) > 0 {
		var evidence registrydomain.Evidence
		if err := json.Unmarshal(score.Evidence, &evidence); err == nil {
			view.Evidence = &evidence
		}
	}
	return view
}

func scoresToViews(scores []*registrydb.Score) []registrydomain.ScoreView {
	views := make([]registrydomain.ScoreView, 0, len(scores))
	for _, score := range scores {
		views = append(views, scoreToView(score))
	}
	return views
}
