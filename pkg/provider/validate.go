package provider

import (
	"fmt"

	"github.com/cogpy/aicogchat/pkg/api"
)

// ValidateChatRequest checks a request before it is handed to a Provider.
// Returns an APIError identifying the offending field, or nil.
func ValidateChatRequest(req *ChatRequest) *api.APIError {
	if req == nil || len(req.Messages) == 0 {
		return api.NewInvalidRequestError("messages", "at least one message is required")
	}

	for i, m := range req.Messages {
		if !m.Role.Valid() {
			return api.NewInvalidRequestError(fmt.Sprintf("messages[%d].role", i),
				fmt.Sprintf("unsupported role %q", m.Role))
		}
	}

	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		return api.NewInvalidRequestError("temperature", "must be between 0 and 2")
	}
	if req.TopP != nil && (*req.TopP < 0 || *req.TopP > 1) {
		return api.NewInvalidRequestError("top_p", "must be between 0 and 1")
	}

	for i, f := range req.Functions {
		if len(f) == 0 {
			return api.NewInvalidRequestError(fmt.Sprintf("functions[%d]", i), "function definition is empty")
		}
	}

	return nil
}

// ValidateEmbeddingsRequest checks an embeddings request.
func ValidateEmbeddingsRequest(req *EmbeddingsRequest) *api.APIError {
	if req == nil || len(req.Texts) == 0 {
		return api.NewInvalidRequestError("texts", "at least one input text is required")
	}
	return nil
}
