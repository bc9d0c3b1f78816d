package observability

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// Transport wraps an http.RoundTripper to record per-request metrics at the
// HTTP layer: one counter increment and one duration observation per
// round trip, plus the active-streams gauge while an SSE response body
// remains open.
//
// The operation label is the request method plus path; status is the HTTP
// status class ("2xx", "4xx") or "error" for transport failures.
type Transport struct {
	Base    http.RoundTripper
	Metrics *Metrics
}

// NewTransport wraps base with metric recording. A nil base uses
// http.DefaultTransport.
func NewTransport(base http.RoundTripper, m *Metrics) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Metrics: m}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	operation := req.Method + " " + req.URL.Path

	resp, err := t.Base.RoundTrip(req)
	duration := time.Since(start).Seconds()

	if err != nil {
		t.Metrics.ObserveRequest(operation, "unknown", "error", duration)
		return nil, err
	}

	status := strconv.Itoa(resp.StatusCode/100) + "xx"
	t.Metrics.ObserveRequest(operation, "unknown", status, duration)

	// For event streams the interesting lifetime is the body's, not the
	// header exchange. Track it until the caller closes the stream.
	if resp.Header.Get("Content-Type") == "text/event-stream" && t.Metrics != nil {
		closed := t.Metrics.StreamOpened()
		resp.Body = &trackedBody{ReadCloser: resp.Body, onClose: closed}
	}

	return resp, nil
}

// trackedBody invokes onClose exactly once when the body is closed.
type trackedBody struct {
	io.ReadCloser
	onClose func()
	done    bool
}

func (b *trackedBody) Close() error {
	if !b.done {
		b.done = true
		b.onClose()
	}
	return b.ReadCloser.Close()
}
