package providers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"YOUR_RETELL_API_KEY_HERE", true},
		{"YOUR_LIVEKIT_API_SECRET_HERE", true},
		{"key_3ac0bb77521c7602b840730a6b00", false},
		{"YOUR_KEY", false},
		{"sk_live", false},
	}

	for _, tt := range tests {
		if got := IsPlaceholder(tt.value); got != tt.want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}

	if got := Placeholder("livekit", "api_key"); got != "YOUR_LIVEKIT_API_KEY_HERE" {
		t.Errorf("Placeholder() = %q", got)
	}
}

func TestConfig_Missing(t *testing.T) {
	cfg := Config{
		"api_key":  "YOUR_RETELL_API_KEY_HERE",
		"agent_id": "agent_1",
		"enabled":  true,
	}

	missing := cfg.Missing("api_key", "agent_id", "enabled", "base_url")
	if len(missing) != 2 || missing[0] != "api_key" || missing[1] != "base_url" {
		t.Errorf("Missing() = %v, want [api_key base_url]", missing)
	}
}

func TestConfig_Accessors(t *testing.T) {
	cfg := Config{
		"s":       "value",
		"n":       float64(42),
		"b":       true,
		"bs":      "TRUE",
		"timeout": "2s",
		"secs":    float64(3),
		"jsecs":   json.Number("1.5"),
	}

	if cfg.String("s") != "value" || cfg.String("n") != "42" || cfg.String("nope") != "" {
		t.Errorf("String() returned unexpected values")
	}
	if !cfg.Bool("b") || !cfg.Bool("bs") || cfg.Bool("s") {
		t.Errorf("Bool() returned unexpected values")
	}
	if got := cfg.Duration("timeout", time.Second); got != 2*time.Second {
		t.Errorf("Duration(timeout) = %v", got)
	}
	if got := cfg.Duration("secs", time.Second); got != 3*time.Second {
		t.Errorf("Duration(secs) = %v", got)
	}
	if got := cfg.Duration("jsecs", time.Second); got != 1500*time.Millisecond {
		t.Errorf("Duration(jsecs) = %v", got)
	}
	if got := cfg.Duration("nope", time.Second); got != time.Second {
		t.Errorf("Duration(nope) = %v", got)
	}
}

func TestConfig_CloneIsDeep(t *testing.T) {
	orig := Config{
		"dataInput": map[string]any{"language": "ru"},
		"messages":  []any{map[string]any{"role": "user"}},
	}

	clone := orig.Clone()
	clone["dataInput"].(map[string]any)["language"] = "en"

	if orig["dataInput"].(map[string]any)["language"] != "ru" {
		t.Error("mutating clone changed the original")
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{"a": "stored"}
	out := cfg.WithDefaults(Config{"a": "default", "b": "default"})

	if out["a"] != "stored" || out["b"] != "default" {
		t.Errorf("WithDefaults() = %v", out)
	}
	if _, ok := cfg["b"]; ok {
		t.Error("WithDefaults() mutated the receiver")
	}
}

func TestFailure_Status(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindUnsupportedProvider, http.StatusBadRequest},
		{KindMissingAuth, http.StatusBadRequest},
		{KindInvalidRequest, http.StatusBadRequest},
		{KindNotConfigured, http.StatusNotImplemented},
		{KindUpstreamError, http.StatusInternalServerError},
		{KindIssuanceError, http.StatusInternalServerError},
		{KindStorageError, http.StatusInternalServerError},
		{KindUpstreamUnreachable, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
		{Kind("bogus"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.kind.HTTPStatus(); got != tt.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestNotConfigured_Message(t *testing.T) {
	f := NotConfigured(LiveKit, "api_key", "api_secret")

	if f.Summary != "LiveKit API key not configured" {
		t.Errorf("Summary = %q", f.Summary)
	}
	if !strings.Contains(f.Message, "LIVEKIT_API_KEY and LIVEKIT_API_SECRET") {
		t.Errorf("Message = %q", f.Message)
	}
}

func TestFailure_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	f := Unreachable(TargetAI, "failed to reach TargetAI", cause)

	if !errors.Is(f, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !strings.Contains(f.Error(), "connection refused") {
		t.Errorf("Error() = %q", f.Error())
	}
}
