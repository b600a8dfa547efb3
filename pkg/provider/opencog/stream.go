package opencog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cogpy/aicogchat/pkg/api"
	"github.com/cogpy/aicogchat/pkg/debug"
	"github.com/cogpy/aicogchat/pkg/provider"
	"github.com/cogpy/aicogchat/pkg/provider/openaicompat"
)

// doneSentinel terminates a stream.
const doneSentinel = "[DONE]"

// toolCallAccumulator rebuilds the single pending tool call of a stream.
type toolCallAccumulator struct {
	name      string
	arguments strings.Builder
	id        string
}

// add folds one tool call delta into the accumulator. Name and id are
// overwritten; argument fragments are appended.
func (a *toolCallAccumulator) add(tc streamToolCall) {
	if !tc.Function.Valid {
		return
	}
	fn := tc.Function.Value
	if fn.Name.Valid {
		a.name = fn.Name.Value
	}
	if fn.Arguments.Valid {
		a.arguments.WriteString(fn.Arguments.Value)
	}
	if tc.ID.Valid {
		a.id = tc.ID.Value
	}
}

// flush returns the accumulated tool call, or nil when no name was seen.
// Empty arguments are read as {}.
func (a *toolCallAccumulator) flush() (*provider.ToolCall, error) {
	if a.name == "" {
		return nil, nil
	}
	raw := a.arguments.String()
	if raw == "" {
		raw = "{}"
	}
	args, err := parseArguments(a.name, raw)
	if err != nil {
		return nil, err
	}
	return &provider.ToolCall{Name: a.name, Arguments: args, ID: a.id}, nil
}

// streamDecoder consumes the events of one streaming call.
type streamDecoder struct {
	handler provider.StreamHandler
	acc     toolCallAccumulator
}

// DecodeStream reads server-sent events from body until the [DONE]
// sentinel, passing text fragments to h as they arrive and the
// reconstructed tool call, if any, once at the end.
//
// A non-success status is classified from the body by CatchError. A
// malformed event aborts the stream. When ctx is cancelled or the body
// ends before the sentinel, the result is StreamPartial with a nil error.
func DecodeStream(ctx context.Context, status int, body io.Reader, h provider.StreamHandler) (provider.StreamStatus, error) {
	if !isSuccess(status) {
		data, err := io.ReadAll(body)
		if err != nil {
			return provider.StreamPartial, openaicompat.MapNetworkError(err)
		}
		return provider.StreamPartial, CatchError(status, data)
	}

	d := &streamDecoder{handler: h}
	r := openaicompat.NewSSEReader(body)

	for {
		if ctx.Err() != nil {
			return provider.StreamPartial, nil
		}

		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			debug.Log("streaming", "stream ended before sentinel")
			return provider.StreamPartial, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return provider.StreamPartial, nil
			}
			return provider.StreamPartial, openaicompat.MapNetworkError(err)
		}

		if ev.Data == doneSentinel {
			if err := d.finish(); err != nil {
				return d.result(ctx, err)
			}
			return provider.StreamCompleted, nil
		}

		if err := d.event(ev.Data); err != nil {
			return d.result(ctx, err)
		}
	}
}

// event handles one non-sentinel payload.
func (d *streamDecoder) event(data string) error {
	// Frames without data (keep-alives, bare event names) carry no delta.
	if data == "" {
		return nil
	}

	var chunk streamChunk
	if err := decodeObject([]byte(data), &chunk); err != nil {
		return api.NewMalformedPayloadError(
			fmt.Sprintf("invalid stream event: %s", debug.Truncate(data, 200)), data, err)
	}
	debug.Payload("streaming", "stream-data", data)

	delta := chunk.Choices.first().Value.Delta.Value

	if text, ok := delta.Content.nonEmpty(); ok {
		if err := d.handler.Text(text); err != nil {
			return err
		}
	}

	if len(delta.ToolCalls) > 0 {
		d.acc.add(delta.ToolCalls[0].Value)
	}
	return nil
}

// finish flushes the accumulator at the sentinel.
func (d *streamDecoder) finish() error {
	call, err := d.acc.flush()
	if err != nil || call == nil {
		return err
	}
	debug.Log("streaming", "tool call", "name", call.Name, "id", call.ID)
	return d.handler.ToolCall(*call)
}

// result maps an error raised while handling an event. Handler errors
// caused by cancellation end the stream as partial.
func (d *streamDecoder) result(ctx context.Context, err error) (provider.StreamStatus, error) {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return provider.StreamPartial, nil
	}
	return provider.StreamPartial, err
}
