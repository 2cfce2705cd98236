package issuer

import (
	"context"
	"errors"
	"strings"
	"time"

	"sycoraxai/voicebroker/pkg/providers"
)

// Legacy token defaults.
const (
	DefaultLegacyBaseURL   = "https://app.targetai.ai"
	DefaultLegacyTokenPath = "/token"
)

// LegacyConfig configures the legacy TargetAI token client.
type LegacyConfig struct {
	BaseURL   string
	TokenPath string
	APIKey    string
	Timeout   time.Duration
}

// LegacyTokenClient fetches a TargetAI token using the fixed server-side API
// key. It backs the /token endpoint and is independent of the config store.
type LegacyTokenClient struct {
	client *Client
	config LegacyConfig
}

// NewLegacyTokenClient creates the client.
func NewLegacyTokenClient(client *Client, cfg LegacyConfig) *LegacyTokenClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultLegacyBaseURL
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = DefaultLegacyTokenPath
	}
	return &LegacyTokenClient{client: client, config: cfg}
}

type legacyTokenResponse struct {
	Token string `json:"token"`
}

// Token requests a token. Any failure is returned as an IssuanceError.
func (c *LegacyTokenClient) Token(ctx context.Context) (string, error) {
	const summary = "Failed to generate TargetAI token"

	if providers.IsPlaceholder(c.config.APIKey) {
		return "", providers.Issuance(providers.TargetAI, summary, errors.New("legacy TargetAI API key is not configured"))
	}

	var resp legacyTokenResponse
	err := c.client.PostJSON(ctx,
		strings.TrimRight(c.config.BaseURL, "/")+"/"+strings.TrimLeft(c.config.TokenPath, "/"),
		map[string]string{"Authorization": "Bearer " + c.config.APIKey},
		c.config.Timeout,
		struct{}{},
		&resp,
	)
	if err != nil {
		return "", providers.Issuance(providers.TargetAI, summary, err)
	}
	if resp.Token == "" {
		return "", providers.Issuance(providers.TargetAI, summary, errors.New("response did not contain a token"))
	}
	return resp.Token, nil
}
