package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soyeahso/moodai/internal/agent"
)

// Metrics holds the gateway's Prometheus collectors. Each Metrics owns its
// registry so that several servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RepliesTotal        *prometheus.CounterVec
	MoodsTotal          *prometheus.CounterVec
	GenerationDuration  *prometheus.HistogramVec
	HistoryClears       prometheus.Counter
	RateLimitHits       *prometheus.CounterVec
	WebSocketClients    prometheus.Gauge
}

// NewMetrics creates and registers the gateway collectors, plus the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodai_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moodai_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		RepliesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodai_replies_total",
				Help: "Replies produced, by outcome",
			},
			[]string{"outcome", "transport"},
		),
		MoodsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodai_moods_total",
				Help: "Classified messages, by mood label",
			},
			[]string{"mood"},
		),
		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moodai_reply_duration_seconds",
				Help:    "Time to produce a reply, including fallback",
				Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"outcome"},
		),
		HistoryClears: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "moodai_history_clears_total",
				Help: "Conversation windows cleared",
			},
		),
		RateLimitHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodai_rate_limit_hits_total",
				Help: "Requests rejected by the chat rate limiter",
			},
			[]string{"transport"},
		),
		WebSocketClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "moodai_websocket_clients",
				Help: "Connected WebSocket clients",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RepliesTotal,
		m.MoodsTotal,
		m.GenerationDuration,
		m.HistoryClears,
		m.RateLimitHits,
		m.WebSocketClients,
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveReply records one produced reply.
func (m *Metrics) ObserveReply(transport string, res agent.Result) {
	if m == nil {
		return
	}
	m.RepliesTotal.WithLabelValues(string(res.Outcome), transport).Inc()
	m.MoodsTotal.WithLabelValues(res.Mood.String()).Inc()
	m.GenerationDuration.WithLabelValues(string(res.Outcome)).Observe(res.Duration.Seconds())
}

// ObserveHTTP records one served HTTP request.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveClear records a cleared conversation window.
func (m *Metrics) ObserveClear() {
	if m == nil {
		return
	}
	m.HistoryClears.Inc()
}

// ObserveRateLimited records a request rejected by the chat rate limiter.
func (m *Metrics) ObserveRateLimited(transport string) {
	if m == nil {
		return
	}
	m.RateLimitHits.WithLabelValues(transport).Inc()
}

// SetClients records the WebSocket client count.
func (m *Metrics) SetClients(n int) {
	if m == nil {
		return
	}
	m.WebSocketClients.Set(float64(n))
}
