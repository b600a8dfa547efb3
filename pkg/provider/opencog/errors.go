package opencog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/cogpy/aicogchat/pkg/api"
)

// CatchError classifies a non-success response. The message is taken from
// the first shape the body matches:
//
//	{"error": {"message": "...", "type"|"code": ...}}
//	{"errors": [{"message": "..."}]}
//	[{"error": {"message": "..."}}]
//	{"detail": "...", "status": ...}
//	{"error": "..."}
//	{"message": "..."}
//
// and otherwise is the whole body. It always returns an error.
func CatchError(status int, body []byte) *api.APIError {
	code, message := errorMessage(body)
	if message == "" {
		message = http.StatusText(status)
	}
	return api.NewHTTPStatusError(status, code, message)
}

func errorMessage(body []byte) (code, message string) {
	raw := strings.TrimSpace(string(body))

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return "", raw
	}

	if obj, ok := field(data, "error").(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok {
			if typ, ok := obj["type"].(string); ok {
				return typ, msg
			}
			return scalar(obj["code"]), msg
		}
	}

	if first, ok := index(field(data, "errors"), 0).(map[string]any); ok {
		if msg, ok := first["message"].(string); ok {
			return scalar(first["code"]), msg
		}
	}

	if obj, ok := field(index(data, 0), "error").(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok {
			return scalar(obj["status"]), msg
		}
	}

	if detail, ok := field(data, "detail").(string); ok {
		if st := scalar(field(data, "status")); st != "" {
			return st, detail
		}
	}

	if msg, ok := field(data, "error").(string); ok {
		return "", msg
	}

	if msg, ok := field(data, "message").(string); ok {
		return "", msg
	}

	return "", raw
}

func field(v any, key string) any {
	if obj, ok := v.(map[string]any); ok {
		return obj[key]
	}
	return nil
}

func index(v any, i int) any {
	if arr, ok := v.([]any); ok && i < len(arr) {
		return arr[i]
	}
	return nil
}

// scalar renders a string or number as text and anything else as "".
func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}
