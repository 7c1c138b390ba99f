package registryservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	"github.com/trustvector/scorer/app/eventbus"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
	registrydb "github.com/trustvector/scorer/app/modules/registry/infrastructure/repositories"
	"github.com/trustvector/scorer/app/shared/metrics"
)

// PassportScorer is the asynchronous scoring task. It is idempotent on its
// target row: every write is keyed by the stable passport id, so concurrent
// or repeated executions for the same (community, address) resolve to the
// last completed write.
type PassportScorer struct {
	passportRepo  registrydb.PassportRepository
	stampRepo     registrydb.StampRepository
	scoreRepo     registrydb.ScoreRepository
	communityRepo accountdb.CommunityRepository

	scorer    Scorer
	publisher eventbus.Publisher
	metrics   *metrics.Metrics

	logger *slog.Logger
	tracer trace.Tracer
}

// NewPassportScorer creates a new PassportScorer.
func NewPassportScorer(
	passportRepo registrydb.PassportRepository,
	stampRepo registrydb.StampRepository,
	scoreRepo registrydb.ScoreRepository,
	communityRepo accountdb.CommunityRepository,
	scorer Scorer,
	publisher eventbus.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	tracer trace.Tracer,
) *PassportScorer {
	return &PassportScorer{
		passportRepo:  passportRepo,
		stampRepo:     stampRepo,
		scoreRepo:     scoreRepo,
		communityRepo: communityRepo,
		scorer:        scorer,
		publisher:     publisher,
		metrics:       m,
		logger:        logger,
		tracer:        tracer,
	}
}

// ScorePassport computes and persists the score for (community, address).
// Failures land in the score row as status ERROR; the returned error only
// reports infrastructure problems the queue should retry.
func (p *PassportScorer) ScorePassport(ctx context.Context, communityID int64, address string) error {
	ctx, span := p.tracer.Start(ctx, "ScorePassport", trace.WithAttributes(
		attribute.Int64("community_id", communityID),
		attribute.String("address", address),
	))
	defer span.End()

	start := time.Now()

	community, err := p.communityRepo.Get(ctx, communityID)
	if err != nil {
		return fmt.Errorf("failed to load community %d: %w", communityID, err)
	}

	passport, err := p.passportRepo.GetByAddress(ctx, address, communityID)
	if err != nil {
		return fmt.Errorf("failed to load passport for %s: %w", address, err)
	}

	stamps, err := p.stampRepo.ListByPassport(ctx, passport.ID)
	if err != nil {
		return fmt.Errorf("failed to load stamps for passport %d: %w", passport.ID, err)
	}

	value, evidence, err := p.scorer.ComputeScore(ctx, community, stamps)
	if err != nil {
		p.logger.ErrorContext(ctx, "scoring failed",
			slog.Int64("passport_id", passport.ID),
			slog.Any("error", err),
		)
		if ferr := p.scoreRepo.FinalizeError(ctx, passport.ID, err.Error()); ferr != nil {
			return fmt.Errorf("failed to record scoring error: %w", ferr)
		}
		p.recordOutcome(ctx, community.ID, address, passport.ID, registrydomain.StatusError, nil, start)
		return nil
	}

	evidenceJSON, err := json.Marshal(evidence)
	if err != nil {
		return fmt.Errorf("failed to marshal evidence: %w", err)
	}

	if err := p.scoreRepo.FinalizeDone(ctx, passport.ID, value, evidenceJSON); err != nil {
		return fmt.Errorf("failed to finalize score: %w", err)
	}

	scoreText := value.String()
	p.recordOutcome(ctx, community.ID, address, passport.ID, registrydomain.StatusDone, &scoreText, start)

	p.logger.InfoContext(ctx, "passport scored",
		slog.Int64("passport_id", passport.ID),
		slog.String("score", scoreText),
	)

	return nil
}

// recordOutcome emits the metrics and the score-updated event for one
// terminal write. Event publishing is best effort; the score row is already
// durable.
func (p *PassportScorer) recordOutcome(ctx context.Context, communityID int64, address string, passportID int64, status registrydomain.Status, score *string, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordJobCompleted(string(status), time.Since(start))
	}

	err := eventbus.PublishScoreUpdated(p.publisher, eventbus.ScoreUpdatedPayload{
		CommunityID: communityID,
		Address:     address,
		PassportID:  passportID,
		Status:      string(status),
		Score:       score,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		p.logger.WarnContext(ctx, "failed to publish score event",
			slog.Int64("passport_id", passportID),
			slog.Any("error", err),
		)
	}
}
