package issuer

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sycoraxai/voicebroker/pkg/providers"
)

func TestLiveKit_SignsAccessToken(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	s := NewLiveKit(func() time.Time { return now })

	cfg := providers.Config{
		"api_key":    "APIdq8Sx",
		"api_secret": "livekit-secret-0123456789",
		"server_url": "wss://voice.livekit.cloud",
	}
	res, err := s.Issue(context.Background(), Request{CallerID: "company_9"}, cfg)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if res.ExpiresIn != 3600 || res.Payload["expires_in"] != 3600 {
		t.Errorf("expires_in = %v", res.Payload["expires_in"])
	}
	if res.Payload["room_name"] != "room_company_9" || res.Payload["participant_name"] != "company_9" {
		t.Errorf("defaults not applied: %v", res.Payload)
	}
	if res.Payload["server_url"] != "wss://voice.livekit.cloud" {
		t.Errorf("server_url = %v", res.Payload["server_url"])
	}

	raw := res.Payload["participant_token"].(string)
	claims := &LiveKitClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		return []byte("livekit-secret-0123456789"), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}

	if claims.Issuer != "APIdq8Sx" || claims.Subject != "company_9" {
		t.Errorf("iss/sub = %q/%q", claims.Issuer, claims.Subject)
	}
	if !claims.Video.RoomJoin || claims.Video.Room != "room_company_9" {
		t.Errorf("video grant = %+v", claims.Video)
	}
	if got := claims.ExpiresAt.Sub(now); got != time.Hour {
		t.Errorf("ttl = %v, want 1h", got)
	}
}

func TestLiveKit_ExplicitRoomAndParticipant(t *testing.T) {
	res, err := NewLiveKit(nil).Issue(context.Background(),
		Request{CallerID: "c", RoomName: "support", ParticipantName: "alex"},
		providers.Config{"api_key": "k", "api_secret": "s", "server_url": "wss://x"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if res.Payload["room_name"] != "support" || res.Payload["participant_name"] != "alex" {
		t.Errorf("Payload = %v", res.Payload)
	}
}

func TestLiveKit_NotConfigured(t *testing.T) {
	tests := []struct {
		name    string
		cfg     providers.Config
		message string
	}{
		{"placeholder key", providers.Config{"api_key": "YOUR_LIVEKIT_API_KEY_HERE", "api_secret": "s"}, "LIVEKIT_API_KEY"},
		{"placeholder secret", providers.Config{"api_key": "k", "api_secret": "YOUR_LIVEKIT_API_SECRET_HERE"}, "LIVEKIT_API_SECRET"},
		{"both", providers.Config{}, "LIVEKIT_API_KEY and LIVEKIT_API_SECRET"},
		{"missing server url", providers.Config{"api_key": "k", "api_secret": "s"}, "LIVEKIT_SERVER_URL"},
		{"placeholder mode still needs key", providers.Config{"mode": "placeholder", "api_key": "YOUR_LIVEKIT_API_KEY_HERE"}, "LIVEKIT_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLiveKit(nil).Issue(context.Background(), Request{CallerID: "c"}, tt.cfg)
			var f *providers.Failure
			if !errors.As(err, &f) || f.Kind != providers.KindNotConfigured {
				t.Fatalf("Issue() error = %v, want NotConfigured", err)
			}
			if f.StatusCode() != http.StatusNotImplemented {
				t.Errorf("StatusCode() = %d", f.StatusCode())
			}
			if !strings.Contains(f.Message, tt.message) {
				t.Errorf("Message = %q, want it to mention %q", f.Message, tt.message)
			}
		})
	}
}

func TestLiveKit_PlaceholderMode(t *testing.T) {
	res, err := NewLiveKit(nil).Issue(context.Background(), Request{CallerID: "company_3"}, providers.Config{
		"mode":       "placeholder",
		"api_key":    "APIkey",
		"server_url": "wss://x",
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if res.Payload["participant_token"] != "placeholder_livekit_token" {
		t.Errorf("participant_token = %v", res.Payload["participant_token"])
	}
	if _, ok := res.Payload["note"]; !ok {
		t.Error("placeholder payload should carry a note")
	}
	if res.Payload["expires_in"] != 3600 {
		t.Errorf("expires_in = %v", res.Payload["expires_in"])
	}
}
