// Package provider defines the canonical chat and embeddings types and the
// protocol-agnostic Provider interface implemented by backend adapters
// (e.g., opencog). Adapters translate between these types and their wire
// format; the Registry selects an adapter for a configured client, and the
// transport in package openaicompat carries out the HTTP exchange.
package provider
