// voicebroker issues short-lived connection credentials for voice AI
// providers (TargetAI, Retell, LiveKit) and relays WebRTC signaling to
// TargetAI.
//
// Usage:
//
//	# Start the broker with built-in defaults
//	voicebroker run
//
//	# Start with a configuration file
//	voicebroker run --config /etc/voicebroker/config.yaml
//
//	# Check a configuration file
//	voicebroker validate --config config.yaml
//
//	# Inspect or load the provider configuration store
//	voicebroker store show
//	voicebroker store import providers.yaml
//	voicebroker store export backup.json
package main

import "os"

func main() {
	os.Exit(Execute())
}
