package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics tracks the provider configuration store.
//
// Metrics:
//   - voicebroker_store_writes_total: store_config writes by outcome
//   - voicebroker_store_external_changes_total: edits made outside the broker
//   - voicebroker_store_backups_total: scheduled backups by outcome
//   - voicebroker_store_last_backup_timestamp_seconds: time of the last good backup
type StoreMetrics struct {
	writesTotal     *prometheus.CounterVec
	externalChanges prometheus.Counter
	backupsTotal    *prometheus.CounterVec
	lastBackup      prometheus.Gauge
}

// NewStoreMetrics creates and registers store metrics.
func NewStoreMetrics(namespace string, registry *prometheus.Registry) *StoreMetrics {
	m := &StoreMetrics{
		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "writes_total",
				Help:      "Total number of provider configuration writes",
			},
			[]string{"outcome"},
		),
		externalChanges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "external_changes_total",
				Help:      "Total number of provider file edits made outside the broker",
			},
		),
		backupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "backups_total",
				Help:      "Total number of scheduled configuration backups",
			},
			[]string{"outcome"},
		),
		lastBackup: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "last_backup_timestamp_seconds",
				Help:      "Unix time of the last successful backup",
			},
		),
	}

	registry.MustRegister(m.writesTotal, m.externalChanges, m.backupsTotal, m.lastBackup)
	return m
}
