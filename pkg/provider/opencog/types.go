package opencog

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Request wire types.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
	Tools       []chatTool    `json:"tools,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string          `json:"type"`
	Function json.RawMessage `json:"function"`
}

type embeddingsRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// Response wire types. Containers use object/array and leaves use the opt
// types, so a field of the wrong JSON kind reads as absent instead of
// failing the document.

type chatResponse struct {
	ID      optString                  `json:"id"`
	Choices array[object[chatChoice]] `json:"choices"`
	Usage   object[chatUsage]          `json:"usage"`
}

type chatChoice struct {
	Message object[responseMessage] `json:"message"`
}

type responseMessage struct {
	Content   optString                       `json:"content"`
	ToolCalls array[object[responseToolCall]] `json:"tool_calls"`
}

type responseToolCall struct {
	ID       optString                `json:"id"`
	Function object[responseFunction] `json:"function"`
}

type responseFunction struct {
	Name      optString `json:"name"`
	Arguments optString `json:"arguments"`
}

type chatUsage struct {
	PromptTokens     optUint `json:"prompt_tokens"`
	CompletionTokens optUint `json:"completion_tokens"`
}

type embeddingsResponse struct {
	Data []embeddingsItem `json:"data"`
}

type embeddingsItem struct {
	Embedding []float32 `json:"embedding"`
}

// Streaming wire types.

type streamChunk struct {
	Choices array[object[streamChoice]] `json:"choices"`
}

type streamChoice struct {
	Delta object[streamDelta] `json:"delta"`
}

type streamDelta struct {
	Content   optString                     `json:"content"`
	ToolCalls array[object[streamToolCall]] `json:"tool_calls"`
}

type streamToolCall struct {
	ID       optString              `json:"id"`
	Function object[streamFunction] `json:"function"`
}

type streamFunction struct {
	Name      optString `json:"name"`
	Arguments optString `json:"arguments"`
}

// object is a JSON value decoded into T only when it is an object. Any
// other kind leaves the zero T with Valid unset.
type object[T any] struct {
	Value T
	Valid bool
}

func (o *object[T]) UnmarshalJSON(b []byte) error {
	*o = object[T]{}
	if jsonKind(b) != '{' {
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// array is a JSON value decoded into a slice only when it is an array. Any
// other kind reads as empty.
type array[T any] []T

func (a *array[T]) UnmarshalJSON(b []byte) error {
	*a = nil
	if jsonKind(b) != '[' {
		return nil
	}
	return json.Unmarshal(b, (*[]T)(a))
}

// first returns the first element, or the zero T when there is none.
func (a array[T]) first() T {
	var zero T
	if len(a) == 0 {
		return zero
	}
	return a[0]
}

// jsonKind returns the first non-space byte of a JSON value.
func jsonKind(b []byte) byte {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// optString is a JSON value that is used only when it is a string.
type optString struct {
	Value string
	Valid bool
}

func (s *optString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	s.Value, s.Valid = v.(string)
	return nil
}

// nonEmpty returns the value if it is a non-empty string.
func (s optString) nonEmpty() (string, bool) {
	return s.Value, s.Valid && s.Value != ""
}

// optUint is a JSON value that is used only when it is a non-negative integer.
type optUint struct {
	Value uint64
	Valid bool
}

func (u *optUint) UnmarshalJSON(b []byte) error {
	n, err := strconv.ParseUint(string(b), 10, 64)
	u.Value, u.Valid = n, err == nil
	return nil
}

func (u optUint) ptr() *uint64 {
	if !u.Valid {
		return nil
	}
	v := u.Value
	return &v
}
