// Package issuer turns a provider's stored configuration into short-lived
// client credentials.
//
// Each provider has a Strategy. TargetAI credentials are assembled locally
// from the stored settings, Retell credentials come from the Retell
// create-web-call API, and LiveKit credentials are HS256 access tokens signed
// with the stored API secret. LegacyTokenClient fetches a TargetAI token for
// the older /token endpoint.
//
// Strategies never retry. Every outbound call is bounded by a timeout and
// inherits the caller's context, so a client disconnect cancels it.
package issuer
