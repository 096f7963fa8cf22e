package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	fetchErrors    *prometheus.CounterVec
	quadrantScores *prometheus.GaugeVec
	positions      prometheus.Gauge
	reportsSent    *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quadsig_cache_hits_total",
				Help: "Total number of market data cache hits",
			},
		),
		cacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quadsig_cache_misses_total",
				Help: "Total number of market data cache misses",
			},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quadsig_fetch_errors_total",
				Help: "Total number of market data fetch errors",
			},
			[]string{"symbol"},
		),
		quadrantScores: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "quadsig_quadrant_score",
				Help: "Latest momentum score per macro quadrant",
			},
			[]string{"quadrant"},
		),
		positions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "quadsig_positions",
				Help: "Number of positions in the latest signal report",
			},
		),
		reportsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quadsig_reports_sent_total",
				Help: "Total number of signal reports sent to backend",
			},
			[]string{"backend"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quadsig_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quadsig_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCacheHit records a market data cache hit.
func (r *Recorder) RecordCacheHit() {
	r.cacheHits.Inc()
}

// RecordCacheMiss records a market data cache miss.
func (r *Recorder) RecordCacheMiss() {
	r.cacheMisses.Inc()
}

// RecordFetchError records a failed fetch for a symbol.
func (r *Recorder) RecordFetchError(symbol string) {
	r.fetchErrors.WithLabelValues(symbol).Inc()
}

// RecordQuadrantScore records the latest score for a quadrant.
func (r *Recorder) RecordQuadrantScore(quadrant string, score float64) {
	r.quadrantScores.WithLabelValues(quadrant).Set(score)
}

// RecordPositions records the position count of the latest report.
func (r *Recorder) RecordPositions(count int) {
	r.positions.Set(float64(count))
}

// RecordReportSent records a report delivered to a backend.
func (r *Recorder) RecordReportSent(backend string) {
	r.reportsSent.WithLabelValues(backend).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
