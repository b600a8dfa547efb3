// Package openaicompat provides the HTTP plumbing shared by adapters for
// OpenAI-compatible backends: a Client that sends prepared provider
// requests (plain or streaming), an SSE frame reader, and network error
// mapping. Wire translation itself stays in the adapters.
package openaicompat
