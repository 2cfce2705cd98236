package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IssuanceMetrics tracks credential issuance.
//
// Metrics:
//   - voicebroker_issuance_total: attempts by provider and outcome
//   - voicebroker_issuance_duration_seconds: latency by provider
type IssuanceMetrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewIssuanceMetrics creates and registers issuance metrics.
func NewIssuanceMetrics(namespace string, registry *prometheus.Registry) *IssuanceMetrics {
	m := &IssuanceMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issuance_total",
				Help:      "Total number of credential issuance attempts",
			},
			[]string{"provider", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "issuance_duration_seconds",
				Help:      "Duration of credential issuance in seconds",
				// Local signing is sub-millisecond; Retell is a network call.
				Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(m.total, m.duration)
	return m
}

// Record records one attempt.
func (m *IssuanceMetrics) Record(provider, outcome string, d time.Duration) {
	m.total.WithLabelValues(provider, outcome).Inc()
	m.duration.WithLabelValues(provider).Observe(d.Seconds())
}
