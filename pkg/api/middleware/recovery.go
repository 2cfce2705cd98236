package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"sycoraxai/voicebroker/pkg/api"
)

// RecoveryMiddleware turns a handler panic into a 500 error body. The stack
// is logged; the client only sees a generic message.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.ErrorContext(r.Context(), "panic in handler",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				_ = api.WriteJSONResponse(w, http.StatusInternalServerError, &api.ErrorResponse{
					Error:   "Internal server error",
					Message: "An internal error occurred. Please try again later.",
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
