package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/trustvector/scorer/app/eventbus"
	accounthandlers "github.com/trustvector/scorer/app/modules/account/infrastructure/handlers"
	registryservice "github.com/trustvector/scorer/app/modules/registry/application"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
	registryhandlers "github.com/trustvector/scorer/app/modules/registry/infrastructure/handlers"
	registryqueue "github.com/trustvector/scorer/app/modules/registry/infrastructure/queue"
	"github.com/trustvector/scorer/app/modules/registry/infrastructure/signer"
	"github.com/trustvector/scorer/app/shared/metrics"
	"github.com/trustvector/scorer/config"
	"github.com/trustvector/scorer/db/bundb"
)

// App owns every long-lived component of the scoring service and the order
// they start and stop in.
type App struct {
	Cfg    *config.Config
	Logger *slog.Logger

	db        *bundb.DBService
	publisher eventbus.Publisher
	queue     *registryqueue.Service
	metrics   *metrics.Metrics
	server    *http.Server
}

// NewApp initializes the application with the necessary services and
// configuration. Nothing starts serving until Run.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	var publisher eventbus.Publisher
	if cfg.NATS.Enabled {
		pub, err := eventbus.NewNATSPublisher(cfg.NATS.URL, watermill.NewSlogLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
		}
		publisher = pub
		logger.InfoContext(ctx, "score event publisher initialized", slog.String("nats_url", cfg.NATS.URL))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	tracer := otel.Tracer("scorer")

	passportScorer := registryservice.NewPassportScorer(
		dbService.PassportDB,
		dbService.StampDB,
		dbService.ScoreDB,
		dbService.CommunityDB,
		registryservice.WeightedScorer{},
		publisher,
		m,
		logger,
		tracer,
	)

	queue, err := registryqueue.NewService(ctx, cfg.Postgres.DSN, cfg.Registry.ScoringWorkers, passportScorer, m, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scoring queue: %w", err)
	}

	service := registryservice.NewRegistryService(
		dbService.PassportDB,
		dbService.StampDB,
		dbService.ScoreDB,
		dbService.CommunityDB,
		dbService.NonceDB,
		queue,
		signer.EthRecoverer{},
		registrydomain.NewCursorCodec(cfg.Registry.CursorSecret),
		cfg.Registry.NonceTTL,
		logger,
		tracer,
	)

	handlers := registryhandlers.NewRegistryHandlers(service, cfg.HTTP.PublicURL, logger)
	rateLimiter := accounthandlers.NewIPRateLimiter(
		rate.Limit(cfg.RateLimit.RequestsPerSecond),
		cfg.RateLimit.Burst,
	)

	router := NewRouter(handlers, dbService.AccountDB, rateLimiter, cfg.HTTP.AllowedOrigins, m, dbService, logger)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		Cfg:       cfg,
		Logger:    logger,
		db:        dbService,
		publisher: publisher,
		queue:     queue,
		metrics:   m,
		server:    server,
	}, nil
}

// Run starts the scoring workers and serves HTTP until the context is
// canceled or the listener fails.
func (a *App) Run(ctx context.Context) error {
	if err := a.queue.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scoring queue: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}
}

// Shutdown stops the HTTP listener, drains the scoring workers and closes
// every connection, in that order.
func (a *App) Shutdown(ctx context.Context) {
	if err := a.server.Shutdown(ctx); err != nil {
		a.Logger.Error("http server shutdown failed", slog.Any("error", err))
	}

	if err := a.queue.Stop(ctx); err != nil {
		a.Logger.Error("scoring queue shutdown failed", slog.Any("error", err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.Logger.Error("failed to close event publisher", slog.Any("error", err))
		}
	}

	if err := a.db.Close(); err != nil {
		a.Logger.Error("failed to close database", slog.Any("error", err))
	}
}
