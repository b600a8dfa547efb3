package opencog

import (
	"encoding/json"
	"fmt"

	"github.com/cogpy/aicogchat/pkg/api"
	"github.com/cogpy/aicogchat/pkg/provider"
)

// BuildChatRequest encodes a chat request for the given model. Optional
// parameters are present in the body only when set on the request or, for
// max_tokens, when the model declares a max-tokens policy. Canonical
// message fields other than role and content are dropped.
func BuildChatRequest(req *provider.ChatRequest, model provider.Model) ([]byte, error) {
	body := chatRequest{
		Model:       model.RealName(),
		Messages:    make([]chatMessage, len(req.Messages)),
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stream:      req.Stream,
	}

	for i, m := range req.Messages {
		body.Messages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}

	if n, ok := model.MaxTokensParam(); ok {
		body.MaxTokens = &n
	}

	if len(req.Functions) > 0 {
		body.Tools = make([]chatTool, len(req.Functions))
		for i, fn := range req.Functions {
			body.Tools[i] = chatTool{Type: "function", Function: fn}
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, api.NewInvalidRequestError("functions", fmt.Sprintf("failed to encode request: %s", err.Error()))
	}
	return data, nil
}

// BuildEmbeddingsRequest encodes an embeddings request for the given model.
func BuildEmbeddingsRequest(req *provider.EmbeddingsRequest, model provider.Model) ([]byte, error) {
	input := req.Texts
	if input == nil {
		input = []string{}
	}
	data, err := json.Marshal(embeddingsRequest{Input: input, Model: model.RealName()})
	if err != nil {
		return nil, api.NewInvalidRequestError("texts", fmt.Sprintf("failed to encode request: %s", err.Error()))
	}
	return data, nil
}
