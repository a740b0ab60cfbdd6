// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Auth metrics
var (
	// TokensIssuedTotal counts token pairs by how they were obtained.
	TokensIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenancy_tokens_issued_total",
			Help: "Total number of token pairs issued",
		},
		[]string{"grant"}, // register, login, refresh
	)

	// RefreshFailuresTotal counts rejected refresh attempts by reason.
	RefreshFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenancy_refresh_failures_total",
			Help: "Total number of rejected refresh attempts",
		},
		[]string{"reason"},
	)

	// LoginFailuresTotal counts failed logins.
	LoginFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tenancy_login_failures_total",
			Help: "Total number of failed login attempts",
		},
	)
)

// Invite metrics
var (
	// InvitesTotal counts invite operations by outcome.
	InvitesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenancy_invites_total",
			Help: "Total number of invite operations by outcome",
		},
		[]string{"outcome"}, // created, reused, accepted
	)

	// JobsEnqueuedTotal counts dispatcher calls by job and result.
	JobsEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenancy_jobs_enqueued_total",
			Help: "Total number of notification jobs handed to the dispatcher",
		},
		[]string{"job", "result"}, // enqueued, duplicate, error
	)

	// JobsProcessedTotal counts worker executions.
	JobsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenancy_jobs_processed_total",
			Help: "Total number of notification jobs processed by the worker",
		},
		[]string{"job", "status"},
	)
)

// Housekeeping metrics
var (
	// HousekeepingAffectedTotal counts rows touched by each sweep step.
	HousekeepingAffectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenancy_housekeeping_rows_total",
			Help: "Rows affected by housekeeping steps",
		},
		[]string{"step"},
	)

	// AuditWriteFailuresTotal counts swallowed audit write errors.
	AuditWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tenancy_audit_write_failures_total",
			Help: "Total number of audit events that could not be written",
		},
	)
)

// HTTP metrics
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenancy_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tenancy_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// HTTPMiddleware records request counts and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
