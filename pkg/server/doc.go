// Package server assembles the voice broker: it opens the configuration
// store, builds the issuance strategies, the signaling proxy and the
// telemetry components, and serves them over HTTP.
//
// Routes:
//
//	POST /connectionDetails   issue credentials for a provider
//	GET  /read_config         stored provider configuration (redacted)
//	POST /store_config        replace the stored configuration
//	POST /token               legacy TargetAI token
//	POST /run/voice/offer     WebRTC offer pass-through to TargetAI
//	GET  /health, /ready      liveness and readiness
//	GET  /version             build information
//	GET  /metrics             Prometheus scrape endpoint (when enabled)
//
// Every route runs behind the request ID, recovery, tracing, logging and
// CORS middleware, in that order.
//
// Basic usage:
//
//	srv, err := server.New(cfg, server.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx)
package server
