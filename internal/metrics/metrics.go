// Package metrics provides the centralized Prometheus metrics registry for
// the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "provider_requests_total",
		Help:      "Total number of upstream provider requests by provider and result",
	}, []string{"provider", "result"})
	ModelPredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "model_predictions_total",
		Help:      "Total number of model predictions by cache state",
	}, []string{"cache_hit"})
	ReportRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "report_rows_total",
		Help:      "Total number of value report rows produced",
	})
	ReportGamesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "report_games_skipped_total",
		Help:      "Total number of games skipped during report builds",
	})
	BetsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "bets_created_total",
		Help:      "Total number of ledger entries created",
	})
	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "bets_settled_total",
		Help:      "Total number of ledger entries settled by result",
	}, []string{"result"})
	ReconcilerRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "puckline",
		Name:      "reconciler_runs_total",
		Help:      "Total number of reconciler runs by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	LedgerEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "puckline",
		Name:      "ledger_entries",
		Help:      "Number of entries currently in the ledger",
	})
	LedgerOpenStake = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "puckline",
		Name:      "ledger_open_stake",
		Help:      "Stake outstanding on pending ledger entries",
	})
)

// Histogram metrics
var (
	ReportBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "puckline",
		Name:      "report_build_duration_seconds",
		Help:      "Duration of value report builds in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ReconcilerRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "puckline",
		Name:      "reconciler_run_duration_seconds",
		Help:      "Duration of reconciler runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	ModelPredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "puckline",
		Name:      "model_prediction_latency_seconds",
		Help:      "Latency of model prediction calls in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(ModelPredictionsTotal)
		registry.MustRegister(ReportRowsTotal)
		registry.MustRegister(ReportGamesSkippedTotal)
		registry.MustRegister(BetsCreatedTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(ReconcilerRunsTotal)

		registry.MustRegister(LedgerEntries)
		registry.MustRegister(LedgerOpenStake)

		registry.MustRegister(ReportBuildDuration)
		registry.MustRegister(ReconcilerRunDuration)
		registry.MustRegister(ModelPredictionLatency)
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
