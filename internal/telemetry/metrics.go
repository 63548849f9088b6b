// Package telemetry provides application-level observability for the asset admin backend.
//
// # Prometheus Metrics Endpoint
//
// All metrics are registered against the default Prometheus registry and are
// automatically available on the side-channel HTTP server started by main.go:
//
//	GET http(s)://<host>:<FLX_TELEMETRY_METRICS_PROMETHEUS_PORT>/metrics
//
// Default port: 9090.  The endpoint returns data in the Prometheus text exposition
// format (Content-Type: text/plain; version=0.0.4) and is intended to be scraped by
// a Prometheus server every 15–60 seconds.  It is NOT served by the Gin router.
//
// # Metric Groups
//
//   - HTTP request counters and latency histograms (labelled by route template, not raw URL)
//   - Login attempt counters split by outcome
//   - Invitation and password reset email counters
//   - Database connection pool gauge (polled every 30 s)
//
// # Label Cardinality
//
// HTTP metrics use c.FullPath() (route template such as /api/v1/assets/:id)
// rather than the raw request URL to prevent unbounded label cardinality from
// user-supplied path segments such as asset IDs or search strings.
//
// # Usage
//
// Import the package for side effects so metrics are registered before the HTTP server
// starts listening, or use an exported var directly:
//
//	telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()
package telemetry

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/flx-software/asset-admin/internal/safego"
)

// HTTP metrics — labelled by method, route template, and status code.
//
// HTTPRequestsTotal is a CounterVec with labels {method, path, status}.
// The path label holds the Gin route template (e.g. /api/v1/assets/:id),
// NOT the raw URL, to prevent unbounded cardinality.
//
// Example PromQL queries:
//   - Request rate (req/s, 5 m window):  rate(http_requests_total[5m])
//   - Error rate (%):                    sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - Requests by route:                 sum by (path) (rate(http_requests_total[5m]))
//
// HTTPRequestDuration is a HistogramVec with labels {method, path} and exponential-ish
// buckets from 5 ms to 30 s.  Use histogram_quantile to compute latency percentiles.
//
// Example PromQL queries:
//   - p99 latency per route:             histogram_quantile(0.99, sum by (path, le) (rate(http_request_duration_seconds_bucket[5m])))
//   - Average latency:                   rate(http_request_duration_seconds_sum[5m]) / rate(http_request_duration_seconds_count[5m])
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Authentication metrics.
//
// LoginAttemptsTotal is a CounterVec with label {result} taking the values
// "success", "bad_credentials", and "inactive".  The counter deliberately does
// NOT carry an email or user label; a per-account label would let an attacker
// enumerate accounts through the metrics endpoint and would blow up cardinality.
//
// Example PromQL queries:
//   - Failed login rate:       rate(login_attempts_total{result="bad_credentials"}[5m])
//   - Alert on brute force:    increase(login_attempts_total{result="bad_credentials"}[10m]) > 50
//
// PasswordResetRequestsTotal counts reset requests accepted by the API, whether
// or not the address maps to an account (the handler answers identically either
// way; the counter does the same).
var (
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts, by result (success, bad_credentials, inactive).",
		},
		[]string{"result"},
	)

	PasswordResetRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "password_reset_requests_total",
			Help: "Total number of password reset requests accepted.",
		},
	)
)

// Invitation and email delivery metrics — recorded by the invite handler and the
// mail sender.
//
// InvitationsSentTotal is a plain Counter incremented once per invitation
// persisted by an org admin.  EmailSendFailuresTotal carries a {kind} label
// ("invite" or "password_reset") so SMTP delivery problems show up per flow.
// Email delivery is best-effort; a rising failure counter with a flat
// invitations counter means admins are re-sending invites by hand.
//
// Example PromQL queries:
//   - Invite volume:            increase(invitations_sent_total[24h])
//   - Delivery failure rate:    rate(email_send_failures_total[1h])
var (
	InvitationsSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invitations_sent_total",
			Help: "Total number of employee invitations created.",
		},
	)

	EmailSendFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_send_failures_total",
			Help: "Total number of failed outbound email deliveries, by email kind.",
		},
		[]string{"kind"},
	)
)

// DBOpenConnections is a Gauge that tracks the number of open connections currently
// held by the sql.DB connection pool.  It is sampled every 30 seconds by
// StartDBStatsCollector rather than per-request to avoid the overhead of sql.DB.Stats().
//
// Example PromQL queries:
//   - Pool utilisation (%): db_open_connections / <FLX_DATABASE_MAX_CONNECTIONS> * 100
//   - Alert on near-exhaustion: db_open_connections > 20  (for max_connections=25)
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector launches a background goroutine that samples sql.DB connection
// pool statistics every 30 seconds and updates the DBOpenConnections gauge.
// The goroutine exits cleanly when the database becomes unreachable (db.Ping fails),
// which happens automatically when the application shuts down and defers db.Close().
//
// Call this once, immediately after db.Connect() succeeds in main.go:
//
//	telemetry.StartDBStatsCollector(database)
func StartDBStatsCollector(db *sql.DB) {
	safego.Go("db-stats-collector", func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.Ping(); err != nil {
				slog.Warn("db stats collector: database unreachable, stopping collector", "error", err)
				return
			}
			DBOpenConnections.Set(float64(db.Stats().OpenConnections))
		}
	})
}
