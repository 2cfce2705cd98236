package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SignalingMetrics tracks relayed voice offers.
type SignalingMetrics struct {
	total    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewSignalingMetrics creates and registers signaling metrics.
func NewSignalingMetrics(namespace string, registry *prometheus.Registry) *SignalingMetrics {
	m := &SignalingMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "signaling",
				Name:      "requests_total",
				Help:      "Total number of voice offers relayed, by resulting status code",
			},
			[]string{"code"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "signaling",
				Name:      "duration_seconds",
				Help:      "Duration of voice offer relays in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
			},
		),
	}

	registry.MustRegister(m.total, m.duration)
	return m
}

// Record records one relay.
func (m *SignalingMetrics) Record(code string, d time.Duration) {
	m.total.WithLabelValues(code).Inc()
	m.duration.Observe(d.Seconds())
}
