package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder receives per-request measurements.
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// Instrument records requests to a single route. route is the registered
// pattern so the label set stays bounded. A nil recorder returns next
// unchanged.
func Instrument(route string, rec HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rec == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)
			rec.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
