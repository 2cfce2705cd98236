package server

import (
	"net/http"

	"sycoraxai/voicebroker/pkg/api/middleware"
	"sycoraxai/voicebroker/pkg/telemetry/health"
	"sycoraxai/voicebroker/pkg/telemetry/tracing"
)

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(s.routes(),
		middleware.RequestIDMiddleware,
		middleware.RecoveryMiddleware(s.logger),
		tracing.HTTPMiddleware,
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(s.config.Server.CORS),
	)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var rec middleware.HTTPRecorder
	if s.collector.Enabled() {
		rec = s.collector
	}
	handle := func(method, path string, h http.Handler) {
		mux.Handle(method+" "+path, middleware.Instrument(path, rec)(h))
	}

	handle(http.MethodPost, "/connectionDetails", http.HandlerFunc(s.handlers.ConnectionDetails))
	handle(http.MethodGet, "/read_config", http.HandlerFunc(s.handlers.ReadConfig))
	handle(http.MethodPost, "/store_config", http.HandlerFunc(s.handlers.StoreConfig))
	handle(http.MethodPost, "/token", http.HandlerFunc(s.handlers.Token))
	handle(http.MethodPost, "/run/voice/offer", http.HandlerFunc(s.handlers.VoiceOffer))

	handle(http.MethodGet, "/health", s.health.LivenessHandler())
	handle(http.MethodGet, "/ready", s.health.ReadinessHandler())
	handle(http.MethodGet, "/version", health.VersionHandler(s.build.Version, s.build.Commit, s.build.BuildTime))

	if s.collector.Enabled() {
		mux.Handle(http.MethodGet+" "+s.config.Telemetry.Metrics.Path, s.collector.Handler())
	}

	if dir := s.config.Server.StaticDir; dir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(dir)))
	}

	return mux
}
