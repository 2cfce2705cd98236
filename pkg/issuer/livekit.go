package issuer

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sycoraxai/voicebroker/pkg/providers"
)

// LiveKit token settings.
const (
	LiveKitExpiresIn = 3600

	// ModePlaceholder returns the stub payload instead of a signed token.
	ModePlaceholder = "placeholder"

	placeholderToken = "placeholder_livekit_token"
	placeholderNote  = "LiveKit token signing is disabled (mode: placeholder)"
)

// VideoGrant is the LiveKit room permission embedded in the token.
type VideoGrant struct {
	RoomJoin bool   `json:"roomJoin"`
	Room     string `json:"room"`
}

// LiveKitClaims are the JWT claims of a LiveKit access token.
type LiveKitClaims struct {
	jwt.RegisteredClaims
	Name  string     `json:"name,omitempty"`
	Video VideoGrant `json:"video"`
}

// LiveKit signs LiveKit access tokens with the stored API secret.
type LiveKit struct {
	now func() time.Time
}

// NewLiveKit creates the LiveKit strategy.
func NewLiveKit(now func() time.Time) *LiveKit {
	if now == nil {
		now = time.Now
	}
	return &LiveKit{now: now}
}

// Provider implements Strategy.
func (*LiveKit) Provider() string {
	return providers.LiveKit
}

// Issue implements Strategy.
func (l *LiveKit) Issue(ctx context.Context, req Request, cfg providers.Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	placeholder := cfg.String(providers.FieldMode) == ModePlaceholder
	if placeholder {
		if !cfg.Configured(providers.FieldAPIKey) {
			return nil, providers.NotConfigured(providers.LiveKit, providers.FieldAPIKey)
		}
	} else if missing := cfg.Missing(providers.FieldAPIKey, providers.FieldAPISecret, providers.FieldServerURL); len(missing) > 0 {
		return nil, providers.NotConfigured(providers.LiveKit, missing...)
	}

	room := req.RoomName
	if room == "" {
		room = "room_" + req.CallerID
	}
	participant := req.ParticipantName
	if participant == "" {
		participant = req.CallerID
	}

	payload := map[string]any{
		"server_url":       cfg[providers.FieldServerURL],
		"room_name":        room,
		"participant_name": participant,
		"user_id":          req.CallerID,
		"expires_in":       LiveKitExpiresIn,
	}

	if placeholder {
		payload["participant_token"] = placeholderToken
		payload["note"] = placeholderNote
		return result(providers.LiveKit, LiveKitExpiresIn, payload), nil
	}

	token, err := l.sign(cfg.String(providers.FieldAPIKey), cfg.String(providers.FieldAPISecret), room, participant)
	if err != nil {
		return nil, providers.Internal(fmt.Errorf("failed to sign LiveKit token: %w", err))
	}
	payload["participant_token"] = token
	return result(providers.LiveKit, LiveKitExpiresIn, payload), nil
}

func (l *LiveKit) sign(apiKey, apiSecret, room, identity string) (string, error) {
	now := l.now()
	claims := LiveKitClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    apiKey,
			Subject:   identity,
			ID:        identity,
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(LiveKitExpiresIn * time.Second)),
		},
		Name: identity,
		Video: VideoGrant{
			RoomJoin: true,
			Room:     room,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(apiSecret))
}
