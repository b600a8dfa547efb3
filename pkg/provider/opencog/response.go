package opencog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cogpy/aicogchat/pkg/api"
	"github.com/cogpy/aicogchat/pkg/debug"
	"github.com/cogpy/aicogchat/pkg/provider"
)

// ExtractChatCompletions converts a complete chat response into a
// completion. A non-success status is classified by CatchError without
// inspecting the body further.
//
// Fields of the wrong JSON kind read as absent. Tool call entries missing a
// name, arguments or id are ignored. The first
// entry whose arguments are not valid JSON fails the whole extraction, and
// a response with neither text nor tool calls is an empty_response error.
func ExtractChatCompletions(status int, body []byte) (*provider.ChatCompletionsOutput, error) {
	if !isSuccess(status) {
		return nil, CatchError(status, body)
	}

	debug.Payload("providers", "non-stream-data", string(body))

	var resp chatResponse
	if err := decodeObject(body, &resp); err != nil {
		return nil, api.NewMalformedPayloadError(
			fmt.Sprintf("invalid response data: %s", debug.Truncate(string(body), 200)),
			string(body), err)
	}

	out := &provider.ChatCompletionsOutput{
		ToolCalls: []provider.ToolCall{},
	}

	msg := resp.Choices.first().Value.Message.Value
	if msg.Content.Valid {
		out.Text = msg.Content.Value
	}

	for _, entry := range msg.ToolCalls {
		tc := entry.Value
		name, arguments, id := tc.Function.Value.Name, tc.Function.Value.Arguments, tc.ID
		if !name.Valid || !arguments.Valid || !id.Valid {
			continue
		}
		args, err := parseArguments(name.Value, arguments.Value)
		if err != nil {
			return nil, err
		}
		out.ToolCalls = append(out.ToolCalls, provider.ToolCall{
			Name:      name.Value,
			Arguments: args,
			ID:        id.Value,
		})
	}

	if out.Text == "" && len(out.ToolCalls) == 0 {
		return nil, api.NewEmptyResponseError(string(body))
	}

	if resp.ID.Valid {
		out.ID = resp.ID.Value
	}
	out.InputTokens = resp.Usage.Value.PromptTokens.ptr()
	out.OutputTokens = resp.Usage.Value.CompletionTokens.ptr()

	return out, nil
}

// ExtractEmbeddings converts a complete embeddings response into one
// vector per data entry, in order. Any structural mismatch fails the whole
// response; partial results are never returned.
func ExtractEmbeddings(status int, body []byte) (provider.EmbeddingsOutput, error) {
	if !isSuccess(status) {
		return nil, CatchError(status, body)
	}

	var resp embeddingsResponse
	err := json.Unmarshal(body, &resp)
	if err == nil && resp.Data == nil {
		err = errors.New("missing data")
	}
	if err == nil {
		for i, item := range resp.Data {
			if item.Embedding == nil {
				err = fmt.Errorf("data[%d] has no embedding", i)
				break
			}
		}
	}
	if err != nil {
		return nil, api.NewMalformedPayloadError("invalid embeddings data", string(body), err)
	}

	out := make(provider.EmbeddingsOutput, len(resp.Data))
	for i, item := range resp.Data {
		out[i] = item.Embedding
	}
	return out, nil
}

// decodeObject unmarshals a document that must be a JSON object.
func decodeObject(data []byte, v any) error {
	if jsonKind(data) != '{' {
		return errors.New("document is not a JSON object")
	}
	return json.Unmarshal(data, v)
}

// parseArguments decodes a tool call's raw arguments into a JSON value.
func parseArguments(name, raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, api.NewArgumentParseError(name, raw, err)
	}
	return v, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
