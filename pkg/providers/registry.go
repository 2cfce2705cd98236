package providers

import (
	"sort"
	"strings"
)

// Provider ids known to the broker.
const (
	TargetAI = "targetai"
	Retell   = "retell"
	LiveKit  = "livekit"
)

// Capability describes what the broker can do for a provider.
type Capability string

const (
	// CapabilityIssue means credentials are issued for real.
	CapabilityIssue Capability = "issue"

	// CapabilityNotImplemented means the provider is registered but no
	// integration exists; issuance fails with NotConfigured.
	CapabilityNotImplemented Capability = "not_implemented"
)

// Descriptor describes a provider: which settings it requires and which
// defaults apply when the stored config omits them.
type Descriptor struct {
	// ID is the provider identifier used in requests and in the store.
	ID string

	// RequiredFields must be present and not placeholders before issuance.
	RequiredFields []string

	// ModeRequiredFields replaces RequiredFields when the config's mode
	// setting matches a key.
	ModeRequiredFields map[string][]string

	// Defaults are merged under the stored config at issuance time.
	Defaults Config

	// Capability flags providers without a working integration.
	Capability Capability
}

// Registry maps provider ids to descriptors. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	descriptors map[string]Descriptor
	known       []string
}

// NewRegistry creates a registry from the given descriptors.
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{descriptors: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		id := Normalize(d.ID)
		if id == "" {
			continue
		}
		d.ID = id
		if d.Capability == "" {
			d.Capability = CapabilityIssue
		}
		r.descriptors[id] = d
	}
	r.known = make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		r.known = append(r.known, id)
	}
	sort.Strings(r.known)
	return r
}

// DefaultRegistry returns the registry of the three supported providers.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Descriptor{
			ID:             TargetAI,
			RequiredFields: []string{"tos_base_url", "agent_uuid"},
			Defaults: Config{
				"tos_base_url":        "https://app.targetai.ai",
				"allowedResponses":    []any{"voice"},
				"emitRawAudioSamples": true,
				"messages":            []any{},
				"dataInput":           map[string]any{},
			},
		},
		Descriptor{
			ID:             Retell,
			RequiredFields: []string{FieldAPIKey, FieldAgentID},
			Defaults: Config{
				FieldBaseURL: "https://api.retellai.com",
			},
		},
		Descriptor{
			ID:             LiveKit,
			RequiredFields: []string{FieldAPIKey, FieldAPISecret, FieldServerURL},
			ModeRequiredFields: map[string][]string{
				"placeholder": {FieldAPIKey},
			},
			Defaults: Config{
				FieldMode: "sign",
			},
		},
	)
}

// Missing returns the required settings cfg lacks or still holds as
// placeholders.
func (d Descriptor) Missing(cfg Config) []string {
	fields := d.RequiredFields
	if mode := cfg.String(FieldMode); mode != "" {
		if f, ok := d.ModeRequiredFields[mode]; ok {
			fields = f
		}
	}
	return cfg.Missing(fields...)
}

// IsKnown reports whether id names a registered provider.
func (r *Registry) IsKnown(id string) bool {
	_, ok := r.descriptors[Normalize(id)]
	return ok
}

// ListKnown returns the registered provider ids in sorted order.
func (r *Registry) ListKnown() []string {
	out := make([]string, len(r.known))
	copy(out, r.known)
	return out
}

// Describe returns the descriptor for id.
func (r *Registry) Describe(id string) (Descriptor, bool) {
	d, ok := r.descriptors[Normalize(id)]
	return d, ok
}

// Validate returns an UnsupportedProvider failure for unknown ids.
func (r *Registry) Validate(id string) error {
	if r.IsKnown(id) {
		return nil
	}
	return UnsupportedProvider(id, r.ListKnown())
}

// Normalize canonicalises a provider id.
func Normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
