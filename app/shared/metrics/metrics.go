package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the scoring registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	jobsEnqueued  prometheus.Counter
	jobsCompleted *prometheus.CounterVec
	scoringTime   prometheus.Histogram
}

// New creates the registry metrics set on a dedicated Prometheus registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		jobsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_scoring_jobs_enqueued_total",
			Help: "Scoring jobs handed to the queue.",
		}),
		jobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_scoring_jobs_completed_total",
			Help: "Scoring jobs finished, by terminal status.",
		}, []string{"status"}),
		scoringTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "registry_scoring_duration_seconds",
			Help:    "Wall-clock duration of one scoring task.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.jobsEnqueued,
		m.jobsCompleted,
		m.scoringTime,
	)

	return m
}

// Handler exposes the registry on /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest records one finished HTTP request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordJobEnqueued counts one scoring job handed to the queue.
func (m *Metrics) RecordJobEnqueued() {
	m.jobsEnqueued.Inc()
}

// RecordJobCompleted counts one finished scoring job and its duration.
func (m *Metrics) RecordJobCompleted(status string, duration time.Duration) {
	m.jobsCompleted.WithLabelValues(status).Inc()
	m.scoringTime.Observe(duration.Seconds())
}
