// Package metrics provides centralized Prometheus metrics registry for the prop ensemble.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "prop_ensemble"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evaluations_total",
		Help:      "Total number of ensemble evaluations",
	}, []string{"stat_type"})
	BetsFlaggedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_flagged_total",
		Help:      "Total number of evaluations flagged as a bet",
	}, []string{"stat_type"})
	ModelFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "model_failures_total",
		Help:      "Total number of degraded model outputs",
	}, []string{"model", "failure"})
	BatchItemsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_items_total",
		Help:      "Total number of batch items scored, by status",
	}, []string{"status"})
	RequestsThrottledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_throttled_total",
		Help:      "Total number of scoring requests rejected by the rate limiter",
	})
)

// Gauge metrics
var (
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "Result cache hit ratio",
	})
)

// Histogram metrics
var (
	ConfidenceScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "confidence_score",
		Help:      "Distribution of final ensemble confidence scores",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
	DisagreementLevel = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "disagreement_level",
		Help:      "Distribution of the coefficient of variation across model projections",
		Buckets:   []float64{0.05, 0.1, 0.15, 0.2, 0.3, 0.5, 0.75, 1.0, 2.0},
	})
	EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of a single ensemble evaluation in seconds",
		Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EvaluationsTotal)
		registry.MustRegister(BetsFlaggedTotal)
		registry.MustRegister(ModelFailuresTotal)
		registry.MustRegister(BatchItemsTotal)
		registry.MustRegister(RequestsThrottledTotal)

		registry.MustRegister(CacheHitRatio)

		registry.MustRegister(ConfidenceScore)
		registry.MustRegister(DisagreementLevel)
		registry.MustRegister(EvaluationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEvaluation records a completed evaluation and its outcome.
func RecordEvaluation(statType string, isBet bool, confidence, disagreement, durationSeconds float64) {
	EvaluationsTotal.WithLabelValues(statType).Inc()
	if isBet {
		BetsFlaggedTotal.WithLabelValues(statType).Inc()
	}
	ConfidenceScore.Observe(confidence)
	DisagreementLevel.Observe(disagreement)
	EvaluationDuration.Observe(durationSeconds)
}

// RecordModelFailure records a degraded model output.
func RecordModelFailure(model, failure string) {
	ModelFailuresTotal.WithLabelValues(model, failure).Inc()
}

// RecordBatchItem records the status of one batch item ("ok" or "error").
func RecordBatchItem(status string) {
	BatchItemsTotal.WithLabelValues(status).Inc()
}

// RecordThrottled records a request rejected by the rate limiter.
func RecordThrottled() {
	RequestsThrottledTotal.Inc()
}

// UpdateCacheHitRatio updates the cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	CacheHitRatio.Set(ratio)
}
