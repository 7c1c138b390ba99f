package registryservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
	"github.com/trustvector/scorer/app/modules/registry/infrastructure/signer"
)

// SubmitPassport runs the submission flow: resolve the community scoped to
// the account, verify signer and nonce when required, upsert passport and
// pending score, and hand the scoring work to the queue. The returned view
// reflects the score row as written here; the task racing ahead of the
// response is acceptable.
func (s *RegistryService) SubmitPassport(ctx context.Context, accountID int64, payload SubmitPassportPayload) (registrydomain.ScoreView, error) {
	ctx, span := s.tracer.Start(ctx, "SubmitPassport", trace.WithAttributes(
		attribute.Int64("scorer_id", payload.ScorerID),
	))
	defer span.End()

	address := lowerAddress(payload.Address)

	community, err := s.communityRepo.GetForAccount(ctx, payload.ScorerID, accountID)
	if err != nil {
		if errors.Is(err, accountdb.ErrCommunityNotFound) {
			return registrydomain.ScoreView{}, registrydomain.ErrNotFound
		}
		return registrydomain.ScoreView{}, fmt.Errorf("failed to resolve community: %w", err)
	}

	if payload.Signature != "" || community.RequireSignature {
		if err := s.verifySubmission(ctx, address, payload); err != nil {
			return registrydomain.ScoreView{}, err
		}
	}

	passport, err := s.passportRepo.Upsert(ctx, address, community.ID)
	if err != nil {
		return registrydomain.ScoreView{}, fmt.Errorf("failed to upsert passport: %w", err)
	}

	score, err := s.scoreRepo.UpsertProcessing(ctx, passport.ID)
	if err != nil {
		return registrydomain.ScoreView{}, fmt.Errorf("failed to upsert pending score: %w", err)
	}
	score.Passport = passport

	if err := s.queue.EnqueueScorePassport(ctx, community.ID, address); err != nil {
		return registrydomain.ScoreView{}, fmt.Errorf("failed to enqueue scoring task: %w", err)
	}

	s.logger.InfoContext(ctx, "passport submitted for scoring",
		slog.String("address", address),
		slog.Int64("community_id", community.ID),
		slog.Int64("passport_id", passport.ID),
	)

	return scoreToView(score), nil
}

// verifySubmission checks the signature against the submitted address and
// atomically consumes the nonce. Nonce consumption happens after signature
// verification so a forged signature cannot burn someone else's nonce.
func (s *RegistryService) verifySubmission(ctx context.Context, address string, payload SubmitPassportPayload) error {
	recovered, err := s.recoverer.RecoverAddress(signer.SigningMessage(payload.Nonce), payload.Signature)
	if err != nil {
		s.logger.WarnContext(ctx, "signature recovery failed",
			slog.String("address", address),
			slog.Any("error", err),
		)
		return registrydomain.ErrInvalidSigner
	}
	if lowerAddress(recovered) != address {
		return registrydomain.ErrInvalidSigner
	}

	if err := s.nonceRepo.Use(ctx, payload.Nonce); err != nil {
		if errors.Is(err, accountdb.ErrNonceNotUsable) {
			s.logger.ErrorContext(ctx, "invalid nonce on submission",
				slog.String("address", address),
			)
			return registrydomain.ErrInvalidNonce
		}
		return fmt.Errorf("failed to consume nonce: %w", err)
	}

	return nil
}
