// Package api defines the error taxonomy shared by all aicogchat packages.
//
// Every failure surfaced by a provider, the transport or the engine is an
// [APIError] whose Type is one of the ErrorType constants. Callers branch on
// the type with [IsType]; the underlying cause, when there is one, stays
// reachable through errors.Is and errors.As.
package api
