package signaling

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"sycoraxai/voicebroker/internal/testutil"
	"sycoraxai/voicebroker/pkg/providers"
)

const offerPath = "/run/voice/offer"

type statusObserver struct{ statuses []int }

func (o *statusObserver) ObserveSignaling(status int, _ time.Duration) {
	o.statuses = append(o.statuses, status)
}

func TestForward_MissingAuthorization(t *testing.T) {
	up := testutil.NewUpstream()
	defer up.Close()

	p := New(Config{Upstream: up.URL() + offerPath}, nil, nil)

	for _, auth := range []string{"", "   "} {
		_, err := p.Forward(context.Background(), auth, []byte(`{"sdp":"v=0"}`))

		var f *providers.Failure
		if !errors.As(err, &f) || f.Kind != providers.KindMissingAuth {
			t.Fatalf("Forward(%q) error = %v, want MissingAuth", auth, err)
		}
		if f.StatusCode() != http.StatusBadRequest {
			t.Errorf("StatusCode() = %d, want 400", f.StatusCode())
		}
		if f.Message == "" {
			t.Error("MissingAuth failure has no message")
		}
	}

	if up.Count() != 0 {
		t.Errorf("upstream received %d requests, want 0", up.Count())
	}
}

func TestForward_RelaysVerbatim(t *testing.T) {
	up := testutil.NewUpstream()
	defer up.Close()

	tests := []struct {
		name       string
		resp       testutil.Response
		wantType   string
		wantBody   string
		wantStatus int
	}{
		{"created", testutil.Response{StatusCode: http.StatusCreated, Body: `{"sdp":"answer"}`, Headers: map[string]string{"Content-Type": "application/sdp"}}, "application/sdp", `{"sdp":"answer"}`, 201},
		{"not found", testutil.Response{StatusCode: http.StatusNotFound, Body: `{"detail":"agent not found"}`, Headers: map[string]string{"Content-Type": "application/json"}}, "application/json", `{"detail":"agent not found"}`, 404},
		{"unavailable", testutil.Response{StatusCode: http.StatusServiceUnavailable, Body: "busy", Headers: map[string]string{"Content-Type": "text/plain"}}, "text/plain", "busy", 503},
		{"redirect not followed", testutil.Response{StatusCode: http.StatusFound, Headers: map[string]string{"Location": "/elsewhere", "Content-Type": "application/json"}}, "application/json", "", 302},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up.Respond(offerPath, tt.resp)
			obs := &statusObserver{}
			p := New(Config{Upstream: up.URL() + offerPath}, obs, nil)

			resp, err := p.Forward(context.Background(), "Bearer tok", []byte(`{"sdp":"offer"}`))
			if err != nil {
				t.Fatalf("Forward() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if resp.ContentType != tt.wantType {
				t.Errorf("ContentType = %q, want %q", resp.ContentType, tt.wantType)
			}
			if string(resp.Body) != tt.wantBody {
				t.Errorf("Body = %q, want %q", resp.Body, tt.wantBody)
			}
			if len(obs.statuses) != 1 || obs.statuses[0] != tt.wantStatus {
				t.Errorf("observed = %v", obs.statuses)
			}

			req, _ := up.Last()
			if req.Header.Get("Authorization") != "Bearer tok" {
				t.Errorf("forwarded Authorization = %q", req.Header.Get("Authorization"))
			}
			if req.Header.Get("Content-Type") != "application/json" {
				t.Errorf("forwarded Content-Type = %q", req.Header.Get("Content-Type"))
			}
			if string(req.Body) != `{"sdp":"offer"}` {
				t.Errorf("forwarded body = %q", req.Body)
			}
		})
	}
}

func TestForward_Unreachable(t *testing.T) {
	p := New(Config{Upstream: "http://127.0.0.1:1" + offerPath, Timeout: 500 * time.Millisecond}, nil, nil)

	_, err := p.Forward(context.Background(), "Bearer tok", []byte(`{}`))
	var f *providers.Failure
	if !errors.As(err, &f) || f.Kind != providers.KindUpstreamUnreachable {
		t.Fatalf("Forward() error = %v, want UpstreamUnreachable", err)
	}
	if f.StatusCode() != http.StatusBadGateway {
		t.Errorf("StatusCode() = %d, want 502", f.StatusCode())
	}
	if f.Summary != "failed to reach TargetAI" || f.Message == "" {
		t.Errorf("Summary/Message = %q / %q", f.Summary, f.Message)
	}
}

func TestForward_Timeout(t *testing.T) {
	up := testutil.NewUpstream()
	defer up.Close()
	up.Respond(offerPath, testutil.Response{Delay: time.Second, Body: "late"})

	p := New(Config{Upstream: up.URL() + offerPath, Timeout: 50 * time.Millisecond}, nil, nil)
	_, err := p.Forward(context.Background(), "Bearer tok", nil)

	var f *providers.Failure
	if !errors.As(err, &f) || f.Kind != providers.KindUpstreamUnreachable {
		t.Fatalf("Forward() error = %v, want UpstreamUnreachable", err)
	}
}

func TestForward_CallerCancellation(t *testing.T) {
	up := testutil.NewUpstream()
	defer up.Close()
	up.Respond(offerPath, testutil.Response{Delay: 2 * time.Second, Body: "late"})

	p := New(Config{Upstream: up.URL() + offerPath}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := p.Forward(ctx, "Bearer tok", nil)
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if time.Since(start) > time.Second {
		t.Errorf("Forward() took %v after cancellation", time.Since(start))
	}
}

func TestForward_BodyLimit(t *testing.T) {
	up := testutil.NewUpstream()
	defer up.Close()

	p := New(Config{Upstream: up.URL() + offerPath, MaxBodyBytes: 8}, nil, nil)
	_, err := p.Forward(context.Background(), "Bearer tok", []byte(strings.Repeat("x", 9)))

	var f *providers.Failure
	if !errors.As(err, &f) || f.Kind != providers.KindInvalidRequest {
		t.Fatalf("Forward() error = %v, want InvalidRequest", err)
	}
	if up.Count() != 0 {
		t.Error("oversized body was forwarded")
	}
}
