// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec

	// Endpoint pool metrics
	EndpointFallbacks prometheus.Counter
	CurrentEndpoint   prometheus.Gauge
	RPCCallLatency    *prometheus.HistogramVec

	// Metadata waterfall metrics
	ProviderRequests *prometheus.CounterVec
	CacheRequests    *prometheus.CounterVec

	// Holder analysis metrics
	HolderBatches   prometheus.Counter
	HoldersAnalyzed prometheus.Histogram

	// Risk metrics
	FindingsEmitted *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trust_scan"
	}

	return &Metrics{
		AnalysesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "analyses_total",
			Help:      "Total number of analyses by subject kind and status",
		}, []string{"kind", "status"}),
		AnalysisDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"kind"}),

		EndpointFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpcpool",
			Name:      "endpoint_fallbacks_total",
			Help:      "Total number of operations that succeeded only after failing over",
		}),
		CurrentEndpoint: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rpcpool",
			Name:      "current_endpoint_index",
			Help:      "Sticky endpoint index of the pool",
		}),
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		ProviderRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metadata",
			Name:      "provider_requests_total",
			Help:      "Metadata provider requests by provider and outcome",
		}, []string{"provider", "outcome"}),
		CacheRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metadata",
			Name:      "cache_requests_total",
			Help:      "Metadata cache lookups by outcome",
		}, []string{"outcome"}),

		HolderBatches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "holders",
			Name:      "batches_total",
			Help:      "Total number of holder balance fetch batches",
		}),
		HoldersAnalyzed: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "holders",
			Name:      "analyzed_per_mint",
			Help:      "Number of holder accounts analyzed per mint",
			Buckets:   []float64{0, 5, 10, 20, 50, 100},
		}),

		FindingsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "findings_total",
			Help:      "Risk findings emitted by type and severity",
		}, []string{"type", "severity"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordAnalysis records a completed analysis.
func RecordAnalysis(kind, status string, durationSeconds float64) {
	DefaultMetrics.AnalysesTotal.WithLabelValues(kind, status).Inc()
	DefaultMetrics.AnalysisDuration.WithLabelValues(kind).Observe(durationSeconds)
}

// RecordEndpointFallback increments the fallback counter.
func RecordEndpointFallback() {
	DefaultMetrics.EndpointFallbacks.Inc()
}

// SetCurrentEndpoint updates the sticky endpoint index gauge.
func SetCurrentEndpoint(i int) {
	DefaultMetrics.CurrentEndpoint.Set(float64(i))
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordProviderRequest records a metadata provider request outcome.
// Outcome is one of "hit", "miss", "error".
func RecordProviderRequest(provider, outcome string) {
	DefaultMetrics.ProviderRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordCacheRequest records a metadata cache lookup outcome.
func RecordCacheRequest(outcome string) {
	DefaultMetrics.CacheRequests.WithLabelValues(outcome).Inc()
}

// RecordHolderBatch increments the batch counter.
func RecordHolderBatch() {
	DefaultMetrics.HolderBatches.Inc()
}

// RecordHoldersAnalyzed records how many holders were analyzed for a mint.
func RecordHoldersAnalyzed(n int) {
	DefaultMetrics.HoldersAnalyzed.Observe(float64(n))
}

// RecordFinding records one emitted risk finding.
func RecordFinding(riskType, severity string) {
	DefaultMetrics.FindingsEmitted.WithLabelValues(riskType, severity).Inc()
}
