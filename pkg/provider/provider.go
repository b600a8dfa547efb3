package provider

import (
	"context"
	"io"
)

// Provider adapts one LLM backend's wire protocol to the canonical types in
// this package. It has three concerns: building a request, parsing a single
// response, and decoding a stream. The HTTP exchange itself is performed by
// the transport (see package openaicompat), so implementations hold no
// per-call state and must be safe for concurrent use.
type Provider interface {
	// Name returns the client instance name (e.g., "opencog").
	Name() string

	// PrepareChat builds the wire request for a chat completion.
	PrepareChat(req *ChatRequest, model Model) (*Request, error)

	// PrepareEmbeddings builds the wire request for an embeddings call.
	PrepareEmbeddings(req *EmbeddingsRequest, model Model) (*Request, error)

	// ParseChat converts one complete response document into a completion.
	// A non-success status always yields an error.
	ParseChat(status int, body []byte) (*ChatCompletionsOutput, error)

	// ParseEmbeddings converts one complete response document into vectors.
	ParseEmbeddings(status int, body []byte) (EmbeddingsOutput, error)

	// DecodeStream consumes a streamed response body and reports text
	// fragments and the final tool call to h as they are produced.
	// It returns StreamPartial with a nil error when ctx is cancelled or
	// the body ends before the terminal sentinel.
	DecodeStream(ctx context.Context, status int, body io.Reader, h StreamHandler) (StreamStatus, error)
}

// Request is a prepared backend request: where to send it, which headers to
// set, and the JSON body.
type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte
}

// SetBearerAuth sets the Authorization header.
func (r *Request) SetBearerAuth(token string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers["Authorization"] = "Bearer " + token
}
