package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"sycoraxai/voicebroker/pkg/telemetry/logging"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen caps client-supplied IDs so they cannot bloat log lines.
const maxRequestIDLen = 128

// RequestIDMiddleware tags each request with an ID, reusing the client's
// X-Request-ID when it is present and reasonably sized. The ID is stored on
// the context for logging and echoed in the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := logging.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID stored by RequestIDMiddleware.
func GetRequestID(r *http.Request) string {
	return logging.GetRequestID(r.Context())
}
