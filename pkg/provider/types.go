package provider

import "encoding/json"

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Name identifies the author within a role. It is kept on the canonical
	// message only; backends that have no use for it never receive it.
	Name string `json:"name,omitempty"`
}

// FunctionDef is an opaque function definition (name, description and JSON
// schema parameters), forwarded to the backend unchanged.
type FunctionDef = json.RawMessage

// ChatRequest is the canonical chat completion request.
type ChatRequest struct {
	Messages    []Message     `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	Functions   []FunctionDef `json:"functions,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

// EmbeddingsRequest is the canonical embeddings request.
type EmbeddingsRequest struct {
	Texts []string `json:"texts"`
}

// ToolCall is a structured function invocation requested by the model.
type ToolCall struct {
	Name string `json:"name"`

	// Arguments is the parsed JSON value of the call arguments.
	Arguments any `json:"arguments"`

	// ID is the backend-assigned call identifier; empty when none was sent.
	ID string `json:"id,omitempty"`
}

// ChatCompletionsOutput is the canonical result of a chat completion.
// Text and ToolCalls are never both empty.
type ChatCompletionsOutput struct {
	Text         string     `json:"text"`
	ToolCalls    []ToolCall `json:"tool_calls"`
	ID           string     `json:"id,omitempty"`
	InputTokens  *uint64    `json:"input_tokens,omitempty"`
	OutputTokens *uint64    `json:"output_tokens,omitempty"`
}

// EmbeddingsOutput holds one vector per input text, in input order.
type EmbeddingsOutput = [][]float32
