// Package metrics exposes Prometheus collectors for the API and the EVM
// engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Views label the EVM computation counter.
const (
	ViewSummary          = "summary"
	ViewDashboard        = "dashboard"
	ViewTimeline         = "timeline"
	ViewEnhancedTimeline = "timeline_enhanced"
	ViewReport           = "report"
)

var (
	// HTTPRequestDuration is the request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	EVMComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evm_computations_total",
			Help: "Total number of EVM snapshots and timelines computed",
		},
		[]string{"view"},
	)

	OverrunPredictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evm_overrun_predictions_total",
			Help: "Timelines that predicted a budget overrun month",
		},
	)

	BreachRisks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evm_breach_risk_total",
			Help: "Snapshots flagged with an obligation-adjusted budget breach risk",
		},
		[]string{"severity"},
	)
)

// RecordHTTPRequestDuration observes one request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementEVMComputation counts one computation for the given view.
func IncrementEVMComputation(view string) {
	EVMComputations.WithLabelValues(view).Inc()
}

// IncrementOverrunPrediction counts a timeline with an overrun point.
func IncrementOverrunPrediction() {
	OverrunPredictions.Inc()
}

// IncrementBreachRisk counts a snapshot at risk of breaching its budget.
func IncrementBreachRisk(severity string) {
	BreachRisks.WithLabelValues(severity).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
