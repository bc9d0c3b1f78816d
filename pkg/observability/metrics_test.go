package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies that all instruments register cleanly in a
// fresh registry and appear after seeding.
func TestMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	expected := map[string]bool{
		"responses_client_requests_total":           false,
		"responses_client_request_duration_seconds": false,
		"responses_client_streams_active":           false,
		"responses_client_stream_events_total":      false,
		"responses_client_tokens_total":             false,
	}

	// Counters and histograms only appear after first observation.
	m.ObserveRequest("create", "gpt-4o", "2xx", 0.1)
	m.ObserveUsage("gpt-4o", 10, 20)
	m.ObserveStreamEvent("response.output_text.delta")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in registry", name)
		}
	}
}

// TestTwoClientsSeparateRegistries verifies that two Metrics instances do
// not collide when each uses its own registry.
func TestTwoClientsSeparateRegistries(t *testing.T) {
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.ObserveRequest("create", "gpt-4o", "2xx", 0.1)

	if got := counterValue(t, a.RequestsTotal, "create", "gpt-4o", "2xx"); got != 1 {
		t.Errorf("registry a counter = %f, want 1", got)
	}
	if got := counterValue(t, b.RequestsTotal, "create", "gpt-4o", "2xx"); got != 0 {
		t.Errorf("registry b counter = %f, want 0", got)
	}
}

// TestNilMetrics verifies that recording through a nil *Metrics is a no-op.
func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("create", "gpt-4o", "2xx", 0.1)
	m.ObserveUsage("gpt-4o", 1, 2)
	m.ObserveStreamEvent("response.completed")
	m.StreamOpened()()
}

// TestObserveUsage verifies token counting by direction.
func TestObserveUsage(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveUsage("gpt-4o", 15, 42)

	if got := counterValue(t, m.TokensTotal, "gpt-4o", "input"); got != 15 {
		t.Errorf("input tokens = %f, want 15", got)
	}
	if got := counterValue(t, m.TokensTotal, "gpt-4o", "output"); got != 42 {
		t.Errorf("output tokens = %f, want 42", got)
	}
}

// TestTransportRecordsRequest verifies that the round tripper increments
// the request counter with the status class.
func TestTransportRecordsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New(prometheus.NewRegistry())
	client := &http.Client{Transport: NewTransport(nil, m)}

	resp, err := client.Get(srv.URL + "/v1/responses")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if got := counterValue(t, m.RequestsTotal, "GET /v1/responses", "unknown", "2xx"); got != 1 {
		t.Errorf("request counter = %f, want 1", got)
	}
	if got := histogramCount(t, m.RequestDuration, "GET /v1/responses", "unknown"); got != 1 {
		t.Errorf("duration samples = %d, want 1", got)
	}
}

// TestTransportStreamGauge verifies the active-streams gauge stays up while
// an SSE body is open and drops when it closes.
func TestTransportStreamGauge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {}\n\n")
	}))
	defer srv.Close()

	m := New(prometheus.NewRegistry())
	client := &http.Client{Transport: NewTransport(nil, m)}

	resp, err := client.Get(srv.URL + "/v1/responses")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if got := gaugeValue(t, m.StreamsActive); got != 1 {
		t.Errorf("streams gauge while open = %f, want 1", got)
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	resp.Body.Close() // idempotent

	if got := gaugeValue(t, m.StreamsActive); got != 0 {
		t.Errorf("streams gauge after close = %f, want 0", got)
	}
}

// TestTransportErrorStatus verifies that transport failures record the
// "error" status label.
func TestTransportErrorStatus(t *testing.T) {
	m := New(prometheus.NewRegistry())
	client := &http.Client{Transport: NewTransport(nil, m)}

	_, err := client.Get("http://127.0.0.1:1/v1/responses")
	if err == nil {
		t.Fatal("expected connection error")
	}
	if !strings.Contains(err.Error(), "refused") && !strings.Contains(err.Error(), "connect") {
		t.Logf("unexpected error kind: %v", err)
	}

	if got := counterValue(t, m.RequestsTotal, "GET /v1/responses", "unknown", "error"); got != 1 {
		t.Errorf("error counter = %f, want 1", got)
	}
}

// counterValue reads the current value of a CounterVec for the given labels.
func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter metric: %v", err)
	}
	if err := c.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing counter metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

// histogramCount reads the observation count from a HistogramVec.
func histogramCount(t *testing.T, hv *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	obs, err := hv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting histogram metric: %v", err)
	}
	if err := obs.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing histogram metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

// gaugeValue reads the current value of a Gauge.
func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatalf("writing gauge metric: %v", err)
	}
	return m.GetGauge().GetValue()
}
