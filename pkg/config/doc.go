// Package config loads the voice broker's server configuration.
//
// Configuration is read from an optional YAML file and overridden by
// environment variables named VOICEBROKER_SECTION_FIELD:
//
//   - VOICEBROKER_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - VOICEBROKER_STORE_BACKEND overrides store.backend
//   - VOICEBROKER_UPSTREAM_LEGACY_API_KEY overrides upstream.legacy.api_key
//
// Values are applied in order: defaults, YAML file, environment, and the
// result is validated. Every invalid field is reported at once:
//
//	configuration validation failed: 2 errors:
//	  - store.backend: invalid backend "postgres" (must be file, sqlite or memory)
//	  - broker.default_provider: unknown provider "vapi" (valid: livekit, retell, targetai)
//
// Provider credentials are not part of this configuration; they live in the
// provider store (see package store) and can be changed at runtime.
//
// # Example
//
//	server:
//	  listen_address: "0.0.0.0:8001"
//	  static_dir: ./dist
//
//	store:
//	  backend: file
//	  path: data/providers.json
//	  seed_file: providers.seed.yaml
//	  backup:
//	    schedule: "0 3 * * *"
//
//	upstream:
//	  signaling:
//	    timeout: 15s
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
package config
