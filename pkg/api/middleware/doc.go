// Package middleware provides the HTTP middleware chain of the broker.
//
// The server applies, outermost first: request ID, recovery, tracing,
// logging and CORS. Instrument is applied per route instead, so metrics are
// labelled with the registered pattern.
package middleware
