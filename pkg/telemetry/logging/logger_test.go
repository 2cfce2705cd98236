package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"sycoraxai/voicebroker/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  config.LoggingConfig
		wantErr bool
	}{
		{"json", config.LoggingConfig{Level: "info", Format: "json"}, false},
		{"text", config.LoggingConfig{Level: "debug", Format: "text"}, false},
		{"defaults", config.LoggingConfig{}, false},
		{"upper case", config.LoggingConfig{Level: "WARN", Format: "JSON"}, false},
		{"invalid level", config.LoggingConfig{Level: "trace"}, true},
		{"invalid format", config.LoggingConfig{Format: "console"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(config.LoggingConfig{Level: "warn"}, buf)
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn record missing")
	}
}

func TestNew_ContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(config.LoggingConfig{Format: "json"}, buf)
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithRequestID(context.Background(), "req-42")
	logger.With("component", "api").InfoContext(ctx, "handled")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["request_id"] != "req-42" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["component"] != "api" {
		t.Errorf("component = %v", entry["component"])
	}
	if _, ok := entry["trace_id"]; ok {
		t.Error("trace_id present without a span")
	}
}

func TestNew_Redaction(t *testing.T) {
	tests := []struct {
		name    string
		redact  bool
		leaked  bool
		logArgs []any
	}{
		{"redacted key", true, false, []any{"api_key", "sk_live_abcdef123456"}},
		{"redacted value", true, false, []any{"header", "Bearer sk_live_abcdef123456"}},
		{"redaction off", false, true, []any{"api_key", "sk_live_abcdef123456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger, err := New(config.LoggingConfig{Redact: tt.redact}, buf)
			if err != nil {
				t.Fatal(err)
			}
			logger.Info("event", tt.logArgs...)

			leaked := strings.Contains(buf.String(), "sk_live_abcdef123456")
			if leaked != tt.leaked {
				t.Errorf("secret leaked = %v, want %v: %s", leaked, tt.leaked, buf.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
