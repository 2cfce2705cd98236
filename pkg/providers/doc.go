// Package providers describes the voice-assistant providers the broker can
// issue credentials for.
//
// # Overview
//
// A provider is a third-party real-time voice backend (TargetAI, Retell,
// LiveKit) with its own credential scheme. This package holds the pieces
// shared by every layer of the broker:
//
//  1. Registry - maps provider ids to a Descriptor (required settings,
//     defaults, capability flag) and rejects unknown ids
//  2. Config - the untyped settings record stored per provider, with helpers
//     for placeholder detection
//  3. Failure - the structured error taxonomy and its HTTP status mapping
//
// # Placeholders
//
// Settings are considered "not configured" when they are empty or hold a
// sentinel of the form YOUR_<PROVIDER>_<FIELD>_HERE:
//
//	cfg := providers.Config{"api_key": "YOUR_LIVEKIT_API_KEY_HERE"}
//	cfg.Configured("api_key") // false
//
// # Validation
//
//	reg := providers.DefaultRegistry()
//	if err := reg.Validate("twilio"); err != nil {
//	    var f *providers.Failure
//	    errors.As(err, &f) // f.Kind == KindUnsupportedProvider
//	    // f.Supported == []string{"livekit", "retell", "targetai"}
//	}
package providers
