package main

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cogpy/aicogchat/pkg/observability"
)

// embeddingDimensions is the length of every returned vector.
const embeddingDimensions = 8

// newHandler builds the server's handler. When apiKeys is non-empty, the
// /v1/ endpoints require one of them as a bearer token.
func newHandler(apiKeys ...string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", handleChatCompletions)
	mux.HandleFunc("POST /v1/embeddings", handleEmbeddings)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	return chain(
		recovery(),
		requestID(),
		logging(nil),
		observability.MetricsMiddleware,
		apiKeyAuth(apiKeys),
	)(mux)
}

// --- Request types ---

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []chatTool    `json:"tools,omitempty"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type embeddingsRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// --- Response types ---

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int     `json:"index"`
	Message      chatMsg `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type chatMsg struct {
	Role      string     `json:"role"`
	Content   *string    `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

type toolCall struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Function funcCall `json:"function"`
}

type funcCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// --- Chat ---

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}
	if req.Model == "" {
		req.Model = "opencog-chat"
	}

	if req.Stream {
		handleStreaming(w, &req)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(respond(&req))
}

func respond(req *chatRequest) chatResponse {
	resp := chatResponse{
		ID:     "chatcmpl-mock",
		Object: "chat.completion",
		Model:  req.Model,
		Usage:  chatUsage{PromptTokens: promptTokens(req)},
	}

	choice := chatChoice{Message: chatMsg{Role: "assistant"}, FinishReason: "stop"}
	if name, ok := toolName(req); ok {
		choice.Message.ToolCalls = []toolCall{{
			ID:       "call_mock_1",
			Type:     "function",
			Function: funcCall{Name: name, Arguments: toolArguments(req)},
		}}
		choice.FinishReason = "tool_calls"
		resp.Usage.CompletionTokens = 1
	} else {
		text := answer(req)
		choice.Message.Content = &text
		resp.Usage.CompletionTokens = len(tokens(text))
	}

	resp.Usage.TotalTokens = resp.Usage.PromptTokens + resp.Usage.CompletionTokens
	resp.Choices = []chatChoice{choice}
	return resp
}

// answer is the deterministic reply text for a request.
func answer(req *chatRequest) string {
	last := lastUserMessage(req)
	switch {
	case strings.Contains(strings.ToLower(last), "count from 1 to 5"):
		return "1, 2, 3, 4, 5"
	case hasSystemPrompt(req):
		return "As instructed: " + last
	case last == "":
		return "Hello from OpenCog!"
	default:
		return "You said: " + last
	}
}

// --- Streaming ---

func handleStreaming(w http.ResponseWriter, req *chatRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writeChunk(w, req.Model, map[string]any{"role": "assistant"})
	flusher.Flush()

	if name, ok := toolName(req); ok {
		// Arguments arrive in two fragments split on a rune boundary; the id
		// and name only once.
		args := toolArguments(req)
		half := len(args) / 2
		for half > 0 && !utf8.RuneStart(args[half]) {
			half--
		}
		writeChunk(w, req.Model, map[string]any{"tool_calls": []any{map[string]any{
			"index": 0, "id": "call_mock_1", "type": "function",
			"function": map[string]any{"name": name, "arguments": args[:half]},
		}}})
		flusher.Flush()
		writeChunk(w, req.Model, map[string]any{"tool_calls": []any{map[string]any{
			"index": 0, "function": map[string]any{"arguments": args[half:]},
		}}})
		flusher.Flush()
	} else {
		for _, tok := range tokens(answer(req)) {
			writeChunk(w, req.Model, map[string]any{"content": tok})
			flusher.Flush()
		}
	}

	fmt.Fprintf(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func writeChunk(w http.ResponseWriter, model string, delta map[string]any) {
	chunk := map[string]any{
		"id":     "chatcmpl-mock-stream",
		"object": "chat.completion.chunk",
		"model":  model,
		"choices": []any{map[string]any{
			"index":         0,
			"delta":         delta,
			"finish_reason": nil,
		}},
	}
	data, _ := json.Marshal(chunk)
	fmt.Fprintf(w, "data: %s\n\n", data)
}

// --- Embeddings ---

func handleEmbeddings(w http.ResponseWriter, r *http.Request) {
	var req embeddingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if len(req.Input) == 0 {
		writeError(w, http.StatusBadRequest, "input must not be empty")
		return
	}

	data := make([]map[string]any, len(req.Input))
	for i, text := range req.Input {
		data[i] = map[string]any{
			"object":    "embedding",
			"index":     i,
			"embedding": embed(text),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"object": "list",
		"model":  req.Model,
		"data":   data,
	})
}

// embed derives a unit-range vector from the SHA-256 of text.
func embed(text string) []float32 {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, embeddingDimensions)
	for i := range vec {
		vec[i] = float32(sum[i]) / 255
	}
	return vec
}

// --- Helpers ---

func writeError(w http.ResponseWriter, status int, msg string) {
	writeErrorType(w, status, "invalid_request_error", msg)
}

func writeErrorType(w http.ResponseWriter, status int, typ, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": msg, "type": typ},
	})
}

func toolName(req *chatRequest) (string, bool) {
	for _, t := range req.Tools {
		if t.Function.Name != "" {
			return t.Function.Name, true
		}
	}
	return "", false
}

func toolArguments(req *chatRequest) string {
	b, _ := json.Marshal(map[string]string{"input": lastUserMessage(req)})
	return string(b)
}

// tokens splits text into words, keeping the separating spaces.
func tokens(text string) []string {
	var out []string
	for i, word := range strings.Split(text, " ") {
		if i > 0 {
			word = " " + word
		}
		out = append(out, word)
	}
	return out
}

func promptTokens(req *chatRequest) int {
	n := 0
	for _, m := range req.Messages {
		n += len(strings.Fields(m.Content))
	}
	return n
}

func lastUserMessage(req *chatRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return req.Messages[i].Content
		}
	}
	return ""
}

func hasSystemPrompt(req *chatRequest) bool {
	for _, msg := range req.Messages {
		if msg.Role == "system" {
			return true
		}
	}
	return false
}
