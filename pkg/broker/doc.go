// Package broker implements the credential-issuance pipeline.
//
// A Dispatcher validates the requested provider id against the registry,
// reads that provider's configuration from the store, merges the registry
// defaults underneath it and hands the result to the provider's issuance
// strategy. Unknown ids are rejected before the store or any strategy is
// touched. The dispatcher also exposes the administrative read/replace
// operations on the store and the legacy TargetAI token call.
package broker
