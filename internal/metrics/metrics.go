// Package metrics holds the Prometheus collectors for the service.
//
// Collectors are registered with the default registry at init and exposed by
// the web server on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// oracleBuckets cover model latencies from a fast cached reply to a slow
// generation.
var oracleBuckets = []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60}

var (
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"}, // success, oracle_error, parse_error
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinematch_recommendation_duration_seconds",
			Help:    "End-to-end recommendation latency including reply parsing",
			Buckets: oracleBuckets,
		},
		[]string{"outcome"},
	)

	OracleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_oracle_requests_total",
			Help: "Oracle API calls by provider, model and status",
		},
		[]string{"provider", "model", "status"},
	)

	OracleRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinematch_oracle_request_duration_seconds",
			Help:    "Oracle API call latency",
			Buckets: oracleBuckets,
		},
		[]string{"provider", "model"},
	)

	FlowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_flow_transitions_total",
			Help: "Interaction flow state transitions",
		},
		[]string{"from", "to"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_active_sessions",
			Help: "Sessions currently held in memory",
		},
	)

	SessionsEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinematch_sessions_evicted_total",
			Help: "Sessions dropped after the idle timeout",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinematch_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordRecommendation records one recommendation attempt.
func RecordRecommendation(outcome string, d time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// RecordOracleRequest records a finished oracle call. status is "ok" or the
// error category.
func RecordOracleRequest(provider, model, status string, d time.Duration) {
	OracleRequestsTotal.WithLabelValues(provider, model, status).Inc()
	if d > 0 {
		OracleRequestDuration.WithLabelValues(provider, model).Observe(d.Seconds())
	}
}

// RecordTransition counts a flow state change.
func RecordTransition(from, to string) {
	FlowTransitionsTotal.WithLabelValues(from, to).Inc()
}

// SessionCreated increments the active session gauge.
func SessionCreated() {
	ActiveSessions.Inc()
}

// SessionEvicted records an idle session being dropped.
func SessionEvicted() {
	ActiveSessions.Dec()
	SessionsEvictedTotal.Inc()
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
