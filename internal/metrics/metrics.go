package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthOutcomes counts flow results by outcome label.
	AuthOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quidalert_auth_outcomes_total",
			Help: "Total number of authentication flow outcomes",
		},
		[]string{"flow", "outcome"},
	)

	// DispatchTasks counts background task results.
	DispatchTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quidalert_dispatch_tasks_total",
			Help: "Total number of background tasks by result",
		},
		[]string{"task", "result"},
	)

	// Throttled counts requests rejected by fixed-window throttles.
	Throttled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quidalert_throttled_total",
			Help: "Total number of requests rejected by throttling",
		},
		[]string{"scope"},
	)

	// HTTPRequests counts served HTTP requests by route pattern.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quidalert_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration observes HTTP request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quidalert_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// HTTPInFlight is the number of HTTP requests being served.
	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quidalert_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Dispatch results.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// Outcome records one flow outcome.
func Outcome(flow, outcome string) {
	AuthOutcomes.WithLabelValues(flow, outcome).Inc()
}
