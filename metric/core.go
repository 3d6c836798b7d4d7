package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the core generation-pipeline metrics.
type Metrics struct {
	// Generation metrics
	GenerationPasses   *prometheus.CounterVec
	PiecesEmitted      *prometheus.CounterVec
	ProviderFailures   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec

	// Validation metrics
	ValidationErrors   *prometheus.CounterVec
	ValidationWarnings *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all pipeline metrics
func NewMetrics() *Metrics {
	return &Metrics{
		GenerationPasses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schemagraph",
				Subsystem: "generation",
				Name:      "passes_total",
				Help:      "Total number of schema generation passes",
			},
			[]string{"context", "status"},
		),

		PiecesEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schemagraph",
				Subsystem: "generation",
				Name:      "pieces_total",
				Help:      "Total number of schema pieces emitted by providers",
			},
			[]string{"provider"},
		),

		ProviderFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schemagraph",
				Subsystem: "generation",
				Name:      "provider_failures_total",
				Help:      "Total number of provider failures (skipped, batch continued)",
			},
			[]string{"provider"},
		),

		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "schemagraph",
				Subsystem: "generation",
				Name:      "duration_seconds",
				Help:      "Schema generation pass duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"context"},
		),

		ValidationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schemagraph",
				Subsystem: "validation",
				Name:      "errors_total",
				Help:      "Total number of schema validation errors",
			},
			[]string{"type"},
		),

		ValidationWarnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schemagraph",
				Subsystem: "validation",
				Name:      "warnings_total",
				Help:      "Total number of schema validation warnings",
			},
			[]string{"type"},
		),
	}
}

// RecordGenerationPass records a completed generation pass with its status
// ("success" or "error").
func (m *Metrics) RecordGenerationPass(contextKey, status string) {
	m.GenerationPasses.WithLabelValues(contextKey, status).Inc()
}

// RecordPiece records a schema piece emitted by a provider.
func (m *Metrics) RecordPiece(provider string) {
	m.PiecesEmitted.WithLabelValues(provider).Inc()
}

// RecordProviderFailure records a provider that failed and was skipped.
func (m *Metrics) RecordProviderFailure(provider string) {
	m.ProviderFailures.WithLabelValues(provider).Inc()
}

// RecordGenerationDuration records how long a generation pass took.
func (m *Metrics) RecordGenerationDuration(contextKey string, duration time.Duration) {
	m.GenerationDuration.WithLabelValues(contextKey).Observe(duration.Seconds())
}

// RecordValidationError records a validation error for a schema type.
func (m *Metrics) RecordValidationError(schemaType string) {
	m.ValidationErrors.WithLabelValues(schemaType).Inc()
}

// RecordValidationWarning records a validation warning for a schema type.
func (m *Metrics) RecordValidationWarning(schemaType string) {
	m.ValidationWarnings.WithLabelValues(schemaType).Inc()
}
