package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"sycoraxai/voicebroker/internal/testutil"
	"sycoraxai/voicebroker/pkg/broker"
	"sycoraxai/voicebroker/pkg/issuer"
	"sycoraxai/voicebroker/pkg/signaling"
	"sycoraxai/voicebroker/pkg/store"
)

type writeCounter struct{ outcomes []string }

func (c *writeCounter) RecordConfigWrite(outcome string) {
	c.outcomes = append(c.outcomes, outcome)
}

type fixture struct {
	handlers *Handlers
	backend  *store.MemoryBackend
	upstream *testutil.Upstream
	writes   *writeCounter
}

func testDocument() store.Document {
	return store.Document{
		"targetai": {
			"tos_base_url": "https://app.targetai.ai",
			"agent_uuid":   "4d0b9d3c-agent",
			"api_key":      "sk_targetai_0123456789",
		},
		"retell": {
			"api_key":  "YOUR_RETELL_API_KEY_HERE",
			"agent_id": "agent_7d1b",
		},
		"livekit": {
			"api_key":    "YOUR_LIVEKIT_API_KEY_HERE",
			"api_secret": "YOUR_LIVEKIT_API_SECRET_HERE",
		},
	}
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	up := testutil.NewUpstream()
	t.Cleanup(up.Close)

	backend := store.NewMemoryBackend(testDocument())
	client := issuer.NewClient(time.Second, nil)

	d, err := broker.New(broker.Config{
		Store:      store.NewConfigStore(backend, nil),
		Strategies: issuer.DefaultStrategies(issuer.Options{Client: client}),
		Legacy: issuer.NewLegacyTokenClient(client, issuer.LegacyConfig{
			BaseURL: up.URL(),
			APIKey:  "sk_legacy_key",
		}),
	})
	if err != nil {
		t.Fatal(err)
	}

	proxy := signaling.New(signaling.Config{
		Upstream:     up.URL() + "/run/voice/offer",
		Timeout:      time.Second,
		MaxBodyBytes: 1024,
	}, nil, nil)

	writes := &writeCounter{}
	opts.Writes = writes
	return &fixture{
		handlers: New(d, proxy, opts),
		backend:  backend,
		upstream: up,
		writes:   writes,
	}
}

func do(h http.HandlerFunc, method, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not a JSON object: %v (%q)", err, rec.Body.String())
	}
	return out
}

func TestConnectionDetails(t *testing.T) {
	f := newFixture(t, Options{})

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantError string
		check     func(t *testing.T, body map[string]any)
	}{
		{
			name:     "targetai",
			body:     `{"provider":"targetai","company_id":"acme"}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				if body["expires_in"] != float64(1800) {
					t.Errorf("expires_in = %v", body["expires_in"])
				}
				if body["server_url"] != "https://app.targetai.ai" || body["agent_uuid"] != "4d0b9d3c-agent" {
					t.Errorf("payload = %v", body)
				}
				if body["user_id"] != "acme" || body["provider"] != "targetai" {
					t.Errorf("payload = %v", body)
				}
			},
		},
		{
			name:      "unknown provider",
			body:      `{"provider":"vapi"}`,
			wantCode:  http.StatusBadRequest,
			wantError: "Unsupported provider: vapi",
			check: func(t *testing.T, body map[string]any) {
				want := []any{"livekit", "retell", "targetai"}
				if !reflect.DeepEqual(body["supported_providers"], want) {
					t.Errorf("supported_providers = %v, want %v", body["supported_providers"], want)
				}
			},
		},
		{
			name:      "retell placeholder",
			body:      `{"provider":"retell"}`,
			wantCode:  http.StatusNotImplemented,
			wantError: "Retell API key not configured",
		},
		{
			name:      "default provider is retell",
			body:      `{}`,
			wantCode:  http.StatusNotImplemented,
			wantError: "Retell API key not configured",
		},
		{
			name:      "livekit placeholder",
			body:      `{"provider":"LiveKit","room_name":"demo"}`,
			wantCode:  http.StatusNotImplemented,
			wantError: "LiveKit API key not configured",
		},
		{
			name:      "malformed json",
			body:      `{"provider":`,
			wantCode:  http.StatusBadRequest,
			wantError: "Invalid request",
		},
		{
			name:      "empty body is the default provider",
			body:      ``,
			wantCode:  http.StatusNotImplemented,
			wantError: "Retell API key not configured",
		},
		{
			name:      "bad language",
			body:      `{"provider":"targetai","language":"en us!"}`,
			wantCode:  http.StatusBadRequest,
			wantError: "Invalid request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(f.handlers.ConnectionDetails, http.MethodPost, tt.body, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			body := decode(t, rec)
			if tt.wantError != "" && body["error"] != tt.wantError {
				t.Errorf("error = %v, want %q", body["error"], tt.wantError)
			}
			if tt.wantError != "" && body["message"] == "" {
				t.Error("error body has no message")
			}
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}

	if f.upstream.Count() != 0 {
		t.Errorf("upstream received %d requests", f.upstream.Count())
	}
}

func TestReadConfig_Redaction(t *testing.T) {
	tests := []struct {
		name   string
		expose bool
		want   string
	}{
		{"redacted by default", false, "****6789"},
		{"exposed", true, "sk_targetai_0123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{ExposeSecrets: tt.expose})
			rec := do(f.handlers.ReadConfig, http.MethodGet, "", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d", rec.Code)
			}

			var doc store.Document
			if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
				t.Fatal(err)
			}
			if got := doc["targetai"]["api_key"]; got != tt.want {
				t.Errorf("api_key = %v, want %q", got, tt.want)
			}
			if got := doc["livekit"]["api_key"]; got != "YOUR_LIVEKIT_API_KEY_HERE" {
				t.Errorf("placeholder was masked: %v", got)
			}
		})
	}
}

func TestStoreConfig_RoundTrip(t *testing.T) {
	f := newFixture(t, Options{ExposeSecrets: true})

	payload := `{
		"targetai": {"tos_base_url": "https://tos.example", "agent_uuid": "new-agent", "messages": [{"role": "system"}]},
		"livekit": {"api_key": "APIkey", "api_secret": "secret-value", "server_url": "wss://lk.example"}
	}`

	rec := do(f.handlers.StoreConfig, http.MethodPost, payload, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("store code = %d (%s)", rec.Code, rec.Body.String())
	}
	if msg := decode(t, rec)["message"]; msg == "" || msg == nil {
		t.Error("store_config returned no message")
	}

	rec = do(f.handlers.ReadConfig, http.MethodGet, "", nil)

	var want, got any
	if err := json.Unmarshal([]byte(payload), &want); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("read_config = %v, want %v", got, want)
	}

	// The new agent is served on the very next request.
	rec = do(f.handlers.ConnectionDetails, http.MethodPost, `{"provider":"targetai"}`, nil)
	if body := decode(t, rec); body["agent_uuid"] != "new-agent" {
		t.Errorf("agent_uuid = %v after replace", body["agent_uuid"])
	}

	if !reflect.DeepEqual(f.writes.outcomes, []string{"success"}) {
		t.Errorf("write outcomes = %v", f.writes.outcomes)
	}
}

func TestStoreConfig_PreservesLargeIntegers(t *testing.T) {
	f := newFixture(t, Options{ExposeSecrets: true})

	rec := do(f.handlers.StoreConfig, http.MethodPost, `{"targetai": {"agent_uuid": "a", "account": 9007199254740993}}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("store code = %d (%s)", rec.Code, rec.Body.String())
	}

	rec = do(f.handlers.ReadConfig, http.MethodGet, "", nil)
	if !strings.Contains(rec.Body.String(), `"account":9007199254740993`) {
		t.Errorf("read_config = %s, want account 9007199254740993 unchanged", rec.Body.String())
	}
}

func TestStoreConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		failWrite bool
		wantCode  int
		wantError string
		outcome   string
	}{
		{"malformed", `{"targetai":`, false, http.StatusBadRequest, "Invalid request", "invalid"},
		{"not an object", `{"targetai": 5}`, false, http.StatusBadRequest, "Invalid request", "invalid"},
		{"mixed-case provider id", `{"Retell": {"api_key": "key_x", "agent_id": "a"}}`, false, http.StatusBadRequest, "Invalid request", "invalid"},
		{"write failure", `{"targetai": {}}`, true, http.StatusInternalServerError, "Failed to store configuration", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			if tt.failWrite {
				f.backend.FailWrites(errors.New("disk full"))
			}

			rec := do(f.handlers.StoreConfig, http.MethodPost, tt.body, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := decode(t, rec)["error"]; got != tt.wantError {
				t.Errorf("error = %v, want %q", got, tt.wantError)
			}
			if len(f.writes.outcomes) != 1 || f.writes.outcomes[0] != tt.outcome {
				t.Errorf("outcomes = %v, want [%s]", f.writes.outcomes, tt.outcome)
			}
		})
	}
}

func TestToken(t *testing.T) {
	f := newFixture(t, Options{})
	f.upstream.Respond("/token", testutil.Response{Body: map[string]string{"token": "tok_123"}})

	rec := do(f.handlers.Token, http.MethodPost, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["provider"] != "targetai" || body["token"] != "tok_123" {
		t.Errorf("body = %v", body)
	}

	f.upstream.Respond("/token", testutil.Response{StatusCode: http.StatusUnauthorized, Body: "no"})
	rec = do(f.handlers.Token, http.MethodPost, "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", rec.Code)
	}
	body = decode(t, rec)
	if body["error"] != "Failed to generate TargetAI token" || body["message"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestVoiceOffer(t *testing.T) {
	t.Run("missing authorization", func(t *testing.T) {
		f := newFixture(t, Options{})
		rec := do(f.handlers.VoiceOffer, http.MethodPost, `{"sdp":"v=0"}`, nil)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %d, want 400", rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != `{"error":"Missing Authorization header","message":"Authorization header is required"}` {
			t.Errorf("body = %s", rec.Body.String())
		}
		if f.upstream.Count() != 0 {
			t.Errorf("upstream called %d times", f.upstream.Count())
		}
	})

	t.Run("relays upstream status", func(t *testing.T) {
		for _, status := range []int{http.StatusCreated, http.StatusNotFound, http.StatusServiceUnavailable} {
			f := newFixture(t, Options{})
			f.upstream.Respond("/run/voice/offer", testutil.Response{
				StatusCode: status,
				Body:       `{"sdp":"answer"}`,
				Headers:    map[string]string{"Content-Type": "application/json"},
			})

			rec := do(f.handlers.VoiceOffer, http.MethodPost, `{"sdp":"offer"}`, map[string]string{"Authorization": "Bearer abc"})
			if rec.Code != status {
				t.Errorf("code = %d, want %d", rec.Code, status)
			}
			if rec.Body.String() != `{"sdp":"answer"}` {
				t.Errorf("body = %q", rec.Body.String())
			}

			req, _ := f.upstream.Last()
			if req.Header.Get("Authorization") != "Bearer abc" || !bytes.Equal(req.Body, []byte(`{"sdp":"offer"}`)) {
				t.Errorf("forwarded request = %+v", req)
			}
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.upstream.Close()

		rec := do(f.handlers.VoiceOffer, http.MethodPost, `{}`, map[string]string{"Authorization": "Bearer abc"})
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("code = %d, want 502", rec.Code)
		}
		body := decode(t, rec)
		if body["error"] != "failed to reach TargetAI" || body["message"] == nil || body["detail"] == nil {
			t.Errorf("body = %v", body)
		}
	})

	t.Run("oversized body", func(t *testing.T) {
		f := newFixture(t, Options{})
		rec := do(f.handlers.VoiceOffer, http.MethodPost, strings.Repeat("x", 2048), map[string]string{"Authorization": "Bearer abc"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", rec.Code)
		}
		if f.upstream.Count() != 0 {
			t.Error("oversized body was forwarded")
		}
	})
}
