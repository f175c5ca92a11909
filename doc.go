// Package authchain is a pluggable authentication and authorization
// orchestrator.
//
// Submitted credentials are handed to an ordered chain of authentication
// providers; the first provider to report success wins and the outcome is
// aggregated into a single response. A separate authorization step
// broadcasts the response to every registered listener and returns all of
// their verdicts.
//
// The root package wires the library from configuration. The individual
// pieces — the observer registry, the authentication coordinator, the
// authorization broadcaster, the event bus, and the provider
// implementations — live in their own packages and can be composed
// directly when the default wiring does not fit.
package authchain
