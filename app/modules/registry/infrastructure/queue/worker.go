package registryqueue

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"

	registryservice "github.com/trustvector/scorer/app/modules/registry/application"
)

// ScorePassportWorker executes scoring jobs. River delivers at-least-once;
// the underlying task writes are idempotent by passport id, so a duplicate
// delivery just recomputes the same row.
type ScorePassportWorker struct {
	river.WorkerDefaults[ScorePassportArgs]

	scorer *registryservice.PassportScorer
	logger *slog.Logger
}

// NewScorePassportWorker creates a new ScorePassportWorker.
func NewScorePassportWorker(scorer *registryservice.PassportScorer, logger *slog.Logger) *ScorePassportWorker {
	return &ScorePassportWorker{
		scorer: scorer,
		logger: logger,
	}
}

// Work runs one scoring job.
func (w *ScorePassportWorker) Work(ctx context.Context, job *river.Job[ScorePassportArgs]) error {
	w.logger.InfoContext(ctx, "scoring job started",
		slog.Int64("community_id", job.Args.CommunityID),
		slog.String("address", job.Args.Address),
		slog.Int("attempt", job.Attempt),
	)

	return w.scorer.ScorePassport(ctx, job.Args.CommunityID, job.Args.Address)
}
