package metrics

import (
	"strconv"
	"time"

	"sycoraxai/voicebroker/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// DefaultNamespace is used when MetricsConfig.Namespace is empty.
const DefaultNamespace = "voicebroker"

// Collector owns the broker's Prometheus metrics. It satisfies the observer
// interfaces of the broker and signaling packages, so those packages never
// import Prometheus directly.
//
// When metrics are disabled every method is a no-op and the registry stays
// empty.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	issuance  *IssuanceMetrics
	signaling *SignalingMetrics
	http      *HTTPMetrics
	store     *StoreMetrics
}

// NewCollector creates a collector registering into registry. A nil
// registry gets a fresh one with the Go runtime and process collectors.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}
	if !cfg.Enabled {
		return c
	}

	c.issuance = NewIssuanceMetrics(namespace, registry)
	c.signaling = NewSignalingMetrics(namespace, registry)
	c.http = NewHTTPMetrics(namespace, registry)
	c.store = NewStoreMetrics(namespace, registry)
	return c
}

// Enabled reports whether metrics are recorded.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// ObserveIssuance records one credential issuance attempt. outcome is
// "success" or the failure kind.
func (c *Collector) ObserveIssuance(provider, outcome string, d time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.issuance.Record(provider, outcome, d)
}

// ObserveSignaling records one relayed voice offer. status is the upstream
// status code, or the status returned to the caller when the upstream was
// never reached.
func (c *Collector) ObserveSignaling(status int, d time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.signaling.Record(strconv.Itoa(status), d)
}

// RecordHTTPRequest records a served HTTP request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.http.Record(method, route, strconv.Itoa(status), d)
}

// RecordConfigWrite records a store_config write. outcome is "success" or
// "error".
func (c *Collector) RecordConfigWrite(outcome string) {
	if !c.config.Enabled {
		return
	}
	c.store.writesTotal.WithLabelValues(outcome).Inc()
}

// RecordExternalChange records an edit to the provider file made outside
// the broker.
func (c *Collector) RecordExternalChange() {
	if !c.config.Enabled {
		return
	}
	c.store.externalChanges.Inc()
}

// RecordBackup records a scheduled backup run.
func (c *Collector) RecordBackup(err error) {
	if !c.config.Enabled {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.store.backupsTotal.WithLabelValues(outcome).Inc()
	if err == nil {
		c.store.lastBackup.SetToCurrentTime()
	}
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
