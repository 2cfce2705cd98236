// Package telemetry groups the broker's observability packages:
//
//   - logging: slog construction, request/trace id enrichment and credential redaction
//   - metrics: Prometheus collector for issuance, signaling, HTTP and store events
//   - tracing: OpenTelemetry provider setup and span helpers
//   - health: liveness, readiness and version endpoints
//
// The server wires all four at startup; domain packages only see the small
// observer interfaces they declare and the tracing helpers.
package telemetry
