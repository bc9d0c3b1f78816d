// Package observability provides Prometheus metrics for monitoring
// client-side request traffic.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Metrics holds the client's Prometheus instruments. Instances register
// into a caller-supplied registry so that several clients in one process
// do not collide.
type Metrics struct {
	// RequestsTotal counts API calls by operation, model, and outcome.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration records API call duration in seconds by operation and model.
	RequestDuration *prometheus.HistogramVec

	// StreamsActive tracks the number of open streaming responses.
	StreamsActive prometheus.Gauge

	// StreamEventsTotal counts decoded stream events by type.
	StreamEventsTotal *prometheus.CounterVec

	// TokensTotal counts tokens reported in usage blocks by direction
	// (input/output).
	TokensTotal *prometheus.CounterVec
}

// New creates and registers the client metrics in the given registry.
// Passing prometheus.DefaultRegisterer attaches them to the process-wide
// registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "responses_client_requests_total",
				Help: "Total API requests",
			},
			[]string{"operation", "model", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "responses_client_request_duration_seconds",
				Help:    "API request duration",
				Buckets: LLMBuckets,
			},
			[]string{"operation", "model"},
		),
		StreamsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "responses_client_streams_active",
				Help: "Open streaming responses",
			},
		),
		StreamEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "responses_client_stream_events_total",
				Help: "Decoded stream events",
			},
			[]string{"type"},
		),
		TokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "responses_client_tokens_total",
				Help: "Token count",
			},
			[]string{"model", "direction"},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.StreamsActive,
		m.StreamEventsTotal,
		m.TokensTotal,
	)
	return m
}

// ObserveRequest records one completed API call.
func (m *Metrics) ObserveRequest(operation, model, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(operation, model, status).Inc()
	m.RequestDuration.WithLabelValues(operation, model).Observe(seconds)
}

// ObserveUsage records the token counts from a completed response.
func (m *Metrics) ObserveUsage(model string, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	m.TokensTotal.WithLabelValues(model, "input").Add(float64(inputTokens))
	m.TokensTotal.WithLabelValues(model, "output").Add(float64(outputTokens))
}

// StreamOpened marks a streaming response as open. The returned func marks
// it closed and is safe to call once.
func (m *Metrics) StreamOpened() func() {
	if m == nil {
		return func() {}
	}
	m.StreamsActive.Inc()
	return func() { m.StreamsActive.Dec() }
}

// ObserveStreamEvent counts one decoded stream event.
func (m *Metrics) ObserveStreamEvent(eventType string) {
	if m == nil {
		return
	}
	m.StreamEventsTotal.WithLabelValues(eventType).Inc()
}
