package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	accounthandlers "github.com/trustvector/scorer/app/modules/account/infrastructure/handlers"
	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	registryhandlers "github.com/trustvector/scorer/app/modules/registry/infrastructure/handlers"
	"github.com/trustvector/scorer/app/shared/metrics"
	"github.com/trustvector/scorer/db/bundb"
)

// NewRouter builds the HTTP surface. Health and metrics are open; everything
// under /registry and /analytics sits behind the API key, and /analytics
// additionally behind the researcher flag.
func NewRouter(
	handlers registryhandlers.Handlers,
	accountRepo accountdb.AccountRepository,
	limiter *accounthandlers.IPRateLimiter,
	allowedOrigins []string,
	m *metrics.Metrics,
	db *bundb.DBService,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(accounthandlers.CORSMiddleware(allowedOrigins))
	if m != nil {
		r.Use(metricsMiddleware(m))
	}

	r.Get("/healthz", healthHandler(db))
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	auth := accounthandlers.APIKeyAuth(accountRepo, logger)

	r.Route("/registry", func(r chi.Router) {
		r.Use(accounthandlers.RateLimitMiddleware(limiter))
		r.Use(auth)

		r.Get("/signing-message", handlers.HandleSigningMessage)
		r.Post("/submit-passport", handlers.HandleSubmitPassport)
		r.Get("/score/{scorerID}/{address}", handlers.HandleGetScore)
		r.Get("/score/{scorerID}", handlers.HandleListScores)
		r.Get("/stamps/{address}", handlers.HandleGetStamps)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Use(accounthandlers.RateLimitMiddleware(limiter))
		r.Use(auth)
		r.Use(accounthandlers.RequireResearcher)

		r.Get("/score/", handlers.HandleScoresAnalytics)
		r.Get("/score/{scorerID}", handlers.HandleCommunityScoresAnalytics)
	})

	return r
}

// metricsMiddleware records request counts and latency per route pattern so
// path parameters do not explode label cardinality.
func metricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.RecordRequest(route, r.Method, ww.Status(), time.Since(start))
		})
	}
}

func healthHandler(db *bundb.DBService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.GetDB().PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
