package registryqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	registryservice "github.com/trustvector/scorer/app/modules/registry/application"
	"github.com/trustvector/scorer/app/shared/metrics"
)

// queueScoring is the dedicated River queue for scoring jobs.
const queueScoring = "scoring"

// Service schedules scoring work on a durable Postgres-backed queue.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ registryservice.QueueService = (*Service)(nil)

// NewService creates the River-based scoring queue. River requires its own
// pgx pool; the bun connection cannot be shared.
func NewService(ctx context.Context, dsn string, maxWorkers int, scorer *registryservice.PassportScorer, m *metrics.Metrics, logger *slog.Logger) (*Service, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewScorePassportWorker(scorer, logger))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			queueScoring: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	logger.InfoContext(ctx, "scoring queue initialized",
		slog.Int("max_workers", maxWorkers),
	)

	return &Service{
		client:  client,
		pool:    pool,
		metrics: m,
		logger:  logger,
	}, nil
}

// Start starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop drains and stops the worker pool, then releases the pool.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.pool.Close()
	return nil
}

// EnqueueScorePassport records one scoring job and returns without waiting
// for execution. Submission latency never includes scoring work.
func (s *Service) EnqueueScorePassport(ctx context.Context, communityID int64, address string) error {
	_, err := s.client.Insert(ctx, ScorePassportArgs{
		CommunityID: communityID,
		Address:     address,
	}, &river.InsertOpts{
		Queue: queueScoring,
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue scoring job: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordJobEnqueued()
	}

	s.logger.InfoContext(ctx, "scoring job enqueued",
		slog.Int64("community_id", communityID),
		slog.String("address", address),
	)

	return nil
}
