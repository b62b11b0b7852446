package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BatchMetrics records generation and export outcomes.
type BatchMetrics struct {
	batches         *prometheus.CounterVec
	codesGenerated  prometheus.Counter
	exportFailures  *prometheus.CounterVec
	generationTimer prometheus.Histogram
}

// NewBatchMetrics registers the batch engine metrics on the provided registerer.
func NewBatchMetrics(reg prometheus.Registerer) *BatchMetrics {
	if reg == nil {
		return &BatchMetrics{}
	}
	batches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batches_created_total",
		Help: "Batch creation requests by outcome.",
	}, []string{"outcome"})
	codes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "codes_generated_total",
		Help: "Unique identifiers generated across all batches.",
	})
	exportFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "export_artifact_failures_total",
		Help: "Export artifact failures by kind.",
	}, []string{"kind"})
	generation := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "batch_generation_seconds",
		Help:    "End-to-end batch generation duration in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(batches, codes, exportFailures, generation)
	return &BatchMetrics{
		batches:         batches,
		codesGenerated:  codes,
		exportFailures:  exportFailures,
		generationTimer: generation,
	}
}

// IncBatchCreated counts one batch creation with the given outcome label.
func (m *BatchMetrics) IncBatchCreated(outcome string) {
	if m == nil || m.batches == nil {
		return
	}
	m.batches.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddCodesGenerated counts generated identifiers.
func (m *BatchMetrics) AddCodesGenerated(n int) {
	if m == nil || m.codesGenerated == nil || n <= 0 {
		return
	}
	m.codesGenerated.Add(float64(n))
}

// IncExportFailure counts one failed export artifact by kind.
func (m *BatchMetrics) IncExportFailure(kind string) {
	if m == nil || m.exportFailures == nil {
		return
	}
	m.exportFailures.WithLabelValues(normalizeLabel(kind)).Inc()
}

// ObserveGeneration records one generation run's duration.
func (m *BatchMetrics) ObserveGeneration(duration time.Duration) {
	if m == nil || m.generationTimer == nil {
		return
	}
	m.generationTimer.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
