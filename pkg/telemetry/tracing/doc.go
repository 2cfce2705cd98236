// Package tracing wires OpenTelemetry into the broker.
//
// New installs a global tracer provider exporting over OTLP gRPC, or leaves
// the no-op provider in place when tracing is disabled. Other packages call
// the package-level Start, SetError and Inject helpers and never hold a
// tracer themselves, so instrumentation costs nothing until tracing is
// switched on.
//
// Spans recorded by the broker:
//
//	broker.issue                    one per connectionDetails request
//	broker.legacy_token             the /token compatibility endpoint
//	issuer.post                     outbound JSON POST to a provider
//	issuer.retell.create_web_call   Retell web call creation
//	signaling.forward               voice offer relay
package tracing
