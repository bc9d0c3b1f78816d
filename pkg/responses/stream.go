package responses

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/rhuss/responses-go/pkg/debug"
	"github.com/rhuss/responses-go/pkg/observability"
)

// maxFrameSize bounds a single SSE frame line. Delta payloads are small, but
// lifecycle events embed a full response snapshot.
const maxFrameSize = 4 * 1024 * 1024

// Stream decodes a server-sent-event byte source into an ordered sequence
// of Event values.
//
// Recv returns the next event, io.EOF once the stream has ended, or the
// decode/transport error that ended it. An error is returned exactly once;
// every Recv after that returns io.EOF. Events are yielded strictly in
// arrival order: callers fold deltas onto prior state by index, so the
// decoder never reorders or buffers beyond one frame.
//
// A Stream must be driven from a single goroutine. Close releases the
// underlying source and may be called from any goroutine, once.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	cancel  context.CancelFunc
	metrics *observability.Metrics

	done   bool
	closed bool
}

// NewStream wraps a raw server-sent-event byte source. Client.Stream is the
// usual constructor; NewStream exists for callers bringing their own
// transport.
func NewStream(body io.ReadCloser) *Stream {
	return newStream(body, nil)
}

func newStream(body io.ReadCloser, cancel context.CancelFunc) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	return &Stream{body: body, scanner: scanner, cancel: cancel}
}

// Recv returns the next event in the stream.
//
// Bytes arrive at arbitrary chunk boundaries; Recv buffers until one
// complete frame (event label + data payload, terminated by a blank line)
// is available, then decodes exactly that frame. Heartbeat frames with an
// empty data payload are consumed silently.
func (s *Stream) Recv() (Event, error) {
	if s.done {
		return Event{}, io.EOF
	}

	var label string
	var dataLines []string

	for s.scanner.Scan() {
		line := strings.TrimSuffix(s.scanner.Text(), "\r")

		if line == "" {
			// Frame boundary.
			ev, yielded, err := s.finishFrame(label, dataLines)
			if yielded {
				return ev, err
			}
			label = ""
			dataLines = nil
			continue
		}

		switch {
		case strings.HasPrefix(line, ":"):
			// SSE comment, ignored.
		case strings.HasPrefix(line, "event:"):
			label = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			d := strings.TrimPrefix(line, "data:")
			d = strings.TrimPrefix(d, " ")
			dataLines = append(dataLines, d)
		default:
			// Unknown SSE fields (id:, retry:) are ignored.
		}
	}

	s.done = true

	if err := s.scanner.Err(); err != nil {
		return Event{}, &TransportError{Op: "stream read", Cause: err}
	}

	// Transport-level stream end. A partial frame without its blank-line
	// terminator never escapes the decoder.
	return Event{}, io.EOF
}

// finishFrame decodes one completed frame. yielded is false when the frame
// is consumed silently (heartbeat, label-only frame).
func (s *Stream) finishFrame(label string, dataLines []string) (Event, bool, error) {
	if len(dataLines) == 0 {
		return Event{}, false, nil
	}

	payload := strings.Join(dataLines, "\n")
	if payload == "" {
		// Heartbeat/keep-alive frame.
		return Event{}, false, nil
	}

	if payload == "[DONE]" {
		s.done = true
		return Event{}, true, io.EOF
	}

	ev, err := decodeEvent(label, []byte(payload))
	if err != nil {
		s.done = true
		return Event{}, true, err
	}

	debug.Log("stream", "decoded event", "type", string(ev.Type))
	s.metrics.ObserveStreamEvent(string(ev.Type))

	if ev.Type.Terminal() {
		// Yield the terminal event; everything after it is trailing noise.
		s.done = true
	}
	return ev, true, nil
}

// Close releases the underlying byte source and any buffered partial frame.
// It is idempotent, and abandoning a stream without draining it is safe:
// no cleanup is deferred beyond this call.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.done = true
	if s.cancel != nil {
		s.cancel()
	}
	return s.body.Close()
}
