package openaicompat

import (
	"bufio"
	"io"
	"strings"
)

// maxLineSize bounds a single SSE line.
const maxLineSize = 1024 * 1024

// SSEEvent is one server-sent event.
type SSEEvent struct {
	Type string
	Data string
	ID   string
}

// SSEReader reads server-sent events from a response body.
//
// Expected format:
//
//	data: {"id":"...","choices":[...]}\n
//	\n
//	data: [DONE]\n
//	\n
//
// Multiple data lines in one event are joined with "\n". Lines starting
// with ":" are comments. Unknown fields are ignored.
type SSEReader struct {
	scanner *bufio.Scanner
}

// NewSSEReader creates a reader over r.
func NewSSEReader(r io.Reader) *SSEReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &SSEReader{scanner: s}
}

// Next returns the next event, or io.EOF when the body ends. A final event
// without a trailing blank line is still returned.
func (r *SSEReader) Next() (*SSEEvent, error) {
	var ev SSEEvent
	var data []string
	var pending bool

	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" {
			if pending {
				ev.Data = strings.Join(data, "\n")
				return &ev, nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "data":
			data = append(data, value)
			pending = true
		case "event":
			ev.Type = value
			pending = true
		case "id":
			ev.ID = value
			pending = true
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if pending {
		ev.Data = strings.Join(data, "\n")
		return &ev, nil
	}
	return nil, io.EOF
}
