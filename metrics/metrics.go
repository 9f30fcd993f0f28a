// Package metrics provides Prometheus metrics collection for the medibot API.
// It exports HTTP metrics for every route and oracle metrics for every
// outbound query:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - oracle_requests_total: Counter with kind and outcome labels
//   - oracle_request_duration_seconds: Histogram with kind label
//
// All metrics are automatically registered with the Prometheus default registry
// during package initialization.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Oracle outcome labels
const (
	OutcomeOK             = "ok"
	OutcomeUnrecognized   = "unrecognized"
	OutcomeFailure        = "failure"
	OutcomeQuotaExhausted = "quota_exhausted"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (client IPs currently tracked)",
		},
	)

	OracleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_requests_total",
			Help: "Oracle queries by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	OracleRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oracle_request_duration_seconds",
			Help:    "Oracle query latency",
			Buckets: []float64{.1, .25, .5, 1, 2, 4, 8, 16},
		},
		[]string{"kind"},
	)

	ExtractedRecords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extracted_records",
			Help:    "Drug records produced per extraction",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(OracleRequestsTotal)
	prometheus.MustRegister(OracleRequestDuration)
	prometheus.MustRegister(ExtractedRecords)
}

// ObserveOracleCall records one oracle query
func ObserveOracleCall(kind, outcome string, elapsed time.Duration) {
	OracleRequestsTotal.WithLabelValues(kind, outcome).Inc()
	OracleRequestDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
