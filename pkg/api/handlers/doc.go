// Package handlers implements the broker's HTTP endpoints:
//
//	POST /connectionDetails   issue credentials for a provider
//	GET  /read_config         stored provider configuration
//	POST /store_config        replace the provider configuration
//	POST /token               legacy TargetAI token
//	POST /run/voice/offer     TargetAI signaling relay
//
// Handlers depend on the small Broker and Signaler interfaces so they can
// be exercised without the network.
package handlers
