// Package metrics exposes the broker's Prometheus metrics.
//
// A single Collector is created at startup and handed to the components
// that report into it: the dispatcher (issuance outcomes), the signaling
// proxy (relay status codes), the HTTP middleware chain (per-route request
// counts) and the store watcher and backup scheduler.
//
// Labels are bounded. Provider labels come from the registry, with anything
// unrecognised reported as "unknown", and HTTP routes use the registered
// pattern rather than the request path.
package metrics
