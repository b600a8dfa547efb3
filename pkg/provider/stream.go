package provider

import "context"

// StreamHandler receives the output of a streaming completion, in order,
// on the decoding goroutine. Returning an error aborts the stream.
type StreamHandler interface {
	// Text is called once per non-empty content fragment.
	Text(fragment string) error

	// ToolCall is called at most once, after the last fragment.
	ToolCall(call ToolCall) error
}

// StreamStatus reports how a stream ended.
type StreamStatus int

const (
	// StreamCompleted means the terminal sentinel was observed.
	StreamCompleted StreamStatus = iota

	// StreamPartial means decoding stopped before the sentinel, because the
	// context was cancelled or the body ended. Fragments already delivered
	// stand; no tool call is synthesized.
	StreamPartial
)

func (s StreamStatus) String() string {
	switch s {
	case StreamCompleted:
		return "completed"
	case StreamPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// StreamEventType classifies a StreamEvent.
type StreamEventType int

const (
	StreamEventTextDelta StreamEventType = iota // Incremental text content
	StreamEventToolCall                         // Completed tool call
	StreamEventDone                             // Stream finished
	StreamEventError                            // Stream error
)

// StreamEvent is one item of a channel-delivered stream.
type StreamEvent struct {
	Type StreamEventType

	// Delta contains incremental text.
	Delta string

	// ToolCall is populated for StreamEventToolCall.
	ToolCall *ToolCall

	// Status is populated for StreamEventDone.
	Status StreamStatus

	// Err is populated for StreamEventError.
	Err error
}

// ChannelHandler is a StreamHandler that forwards output to a channel.
// Sends block until received or until ctx is done.
type ChannelHandler struct {
	ctx context.Context
	ch  chan<- StreamEvent
}

// NewChannelHandler returns a handler that sends events on ch.
func NewChannelHandler(ctx context.Context, ch chan<- StreamEvent) *ChannelHandler {
	return &ChannelHandler{ctx: ctx, ch: ch}
}

// Text implements StreamHandler.
func (h *ChannelHandler) Text(fragment string) error {
	return h.send(StreamEvent{Type: StreamEventTextDelta, Delta: fragment})
}

// ToolCall implements StreamHandler.
func (h *ChannelHandler) ToolCall(call ToolCall) error {
	return h.send(StreamEvent{Type: StreamEventToolCall, ToolCall: &call})
}

func (h *ChannelHandler) send(ev StreamEvent) error {
	select {
	case h.ch <- ev:
		return nil
	case <-h.ctx.Done():
		return h.ctx.Err()
	}
}
