// Package opencog implements the provider.Provider interface for OpenCog
// chat and embeddings servers. The server speaks the OpenAI Chat
// Completions wire format at /chat/completions and /embeddings, streams
// with server-sent events, and accepts an optional bearer token.
//
// Streaming tool calls are reconstructed from fragments: the function name
// and call id are taken from the most recent delta that carries them,
// argument fragments are concatenated, and the single pending call is
// emitted when the [DONE] sentinel arrives.
package opencog
