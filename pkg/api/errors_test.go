package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"sycoraxai/voicebroker/pkg/providers"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		want       ErrorResponse
	}{
		{
			name:       "unsupported provider",
			err:        providers.UnsupportedProvider("vapi", []string{"livekit", "retell", "targetai"}),
			wantStatus: http.StatusBadRequest,
			want: ErrorResponse{
				Error:              "Unsupported provider: vapi",
				Message:            "Valid providers are: livekit, retell, targetai",
				SupportedProviders: []string{"livekit", "retell", "targetai"},
			},
		},
		{
			name:       "not configured",
			err:        providers.NotConfigured(providers.Retell, providers.FieldAPIKey),
			wantStatus: http.StatusNotImplemented,
			want: ErrorResponse{
				Error:   "Retell API key not configured",
				Message: "Please configure RETELL_API_KEY in the server configuration",
			},
		},
		{
			name:       "unreachable uses detail",
			err:        providers.Unreachable(providers.TargetAI, "failed to reach TargetAI", errors.New("connection refused")),
			wantStatus: http.StatusBadGateway,
			want: ErrorResponse{
				Error:   "failed to reach TargetAI",
				Message: "The upstream service could not be reached",
				Detail:  "connection refused",
			},
		},
		{
			name:       "upstream error",
			err:        providers.Upstream(providers.Retell, "Failed to create Retell web call", errors.New("status 401")),
			wantStatus: http.StatusInternalServerError,
			want: ErrorResponse{
				Error:   "Failed to create Retell web call",
				Message: "status 401",
			},
		},
		{
			name:       "storage",
			err:        providers.Storage(errors.New("read-only file system")),
			wantStatus: http.StatusInternalServerError,
			want: ErrorResponse{
				Error:   "Failed to store configuration",
				Message: "read-only file system",
			},
		},
		{
			name:       "wrapped failure",
			err:        fmt.Errorf("handler: %w", providers.Invalid("bad body", nil)),
			wantStatus: http.StatusBadRequest,
			want:       ErrorResponse{Error: "Invalid request", Message: "bad body"},
		},
		{
			name:       "internal hides cause",
			err:        providers.Internal(errors.New("nil map write")),
			wantStatus: http.StatusInternalServerError,
			want: ErrorResponse{
				Error:   "Internal server error",
				Message: "An internal error occurred. Please try again later.",
			},
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			want: ErrorResponse{
				Error:   "Internal server error",
				Message: "An internal error occurred. Please try again later.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, got := HandleError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("body = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestWriteError_MissingAuthBody(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, providers.MissingAuth(providers.TargetAI))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 2 || body["error"] != "Missing Authorization header" || body["message"] != "Authorization header is required" {
		t.Errorf("body = %v", body)
	}
}
