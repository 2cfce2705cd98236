package issuer

import (
	"context"
	"time"

	"sycoraxai/voicebroker/pkg/providers"
)

// Request is what a strategy needs to know about the caller.
type Request struct {
	// Provider is the normalised provider id.
	Provider string

	// CallerID identifies the end user (the widget's company_id).
	CallerID string

	// RoomName and ParticipantName are LiveKit-only.
	RoomName        string
	ParticipantName string

	// Language overrides the TargetAI dataInput.language setting.
	Language string
}

// Result is a successfully issued credential.
type Result struct {
	// Provider is always the provider id of the request.
	Provider string

	// Payload is returned to the client as the response body.
	Payload map[string]any

	// ExpiresIn is the credential lifetime in seconds.
	ExpiresIn int
}

// Strategy issues credentials for one provider.
type Strategy interface {
	// Provider returns the provider id the strategy serves.
	Provider() string

	// Issue produces a credential from the provider's stored config.
	Issue(ctx context.Context, req Request, cfg providers.Config) (*Result, error)
}

// Set is a lookup table of strategies keyed by provider id.
type Set map[string]Strategy

// NewSet builds a Set from strategies.
func NewSet(strategies ...Strategy) Set {
	s := make(Set, len(strategies))
	for _, st := range strategies {
		s[providers.Normalize(st.Provider())] = st
	}
	return s
}

// Lookup returns the strategy for id.
func (s Set) Lookup(id string) (Strategy, error) {
	st, ok := s[providers.Normalize(id)]
	if !ok {
		return nil, providers.NotConfigured(id)
	}
	return st, nil
}

// Options configures the built-in strategies.
type Options struct {
	// Client performs outbound calls. Defaults to NewClient(DefaultTimeout).
	Client *Client

	// Now returns the current time. Tests override it.
	Now func() time.Time
}

// DefaultStrategies returns the strategies for every built-in provider.
func DefaultStrategies(opts Options) Set {
	if opts.Client == nil {
		opts.Client = NewClient(DefaultTimeout, nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return NewSet(
		NewTargetAI(),
		NewRetell(opts.Client),
		NewLiveKit(opts.Now),
	)
}

func result(provider string, expiresIn int, payload map[string]any) *Result {
	payload["provider"] = provider
	return &Result{Provider: provider, Payload: payload, ExpiresIn: expiresIn}
}
