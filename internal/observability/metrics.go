// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Planning run metrics
	PlanningRunsTotal *prometheus.CounterVec
	PhaseDuration     *prometheus.HistogramVec

	// Optimization metrics
	ChannelsOptimized prometheus.Counter
	ChannelsSkipped   prometheus.Counter

	// Attribution metrics
	JourneysAttributed *prometheus.CounterVec
	JourneysDiscarded  prometheus.Counter

	// Model metrics
	ModelAccuracy prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "media_mix_lab"
	}

	return &Metrics{
		PlanningRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "planning",
			Name:      "runs_total",
			Help:      "Total number of planning runs by status",
		}, []string{"status"}),
		PhaseDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "planning",
			Name:      "phase_duration_seconds",
			Help:      "Planning phase execution duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"phase"}),

		ChannelsOptimized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "channels_optimized_total",
			Help:      "Total number of channels optimized",
		}),
		ChannelsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "channels_skipped_total",
			Help:      "Total number of channels skipped due to invalid inputs",
		}),

		JourneysAttributed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attribution",
			Name:      "journeys_attributed_total",
			Help:      "Total number of journeys attributed by mode",
		}, []string{"mode"}),
		JourneysDiscarded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attribution",
			Name:      "journeys_discarded_total",
			Help:      "Total number of journeys discarded without a conversion",
		}),

		ModelAccuracy: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "contribution",
			Name:      "model_accuracy",
			Help:      "Holdout accuracy of the last contribution model fit",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRun records a finished planning run.
func (m *Metrics) RecordRun(status string) {
	if m == nil {
		return
	}
	m.PlanningRunsTotal.WithLabelValues(status).Inc()
}

// RecordPhase records the duration of one planning phase.
func (m *Metrics) RecordPhase(phase string, seconds float64) {
	if m == nil {
		return
	}
	m.PhaseDuration.WithLabelValues(phase).Observe(seconds)
}

// RecordAttribution records attributed journeys for a mode ("exact" or
// "sampled").
func (m *Metrics) RecordAttribution(mode string, count int) {
	if m == nil {
		return
	}
	m.JourneysAttributed.WithLabelValues(mode).Add(float64(count))
}
