package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry      *prometheus.Registry
	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	remindersSent prometheus.Counter
	httpRequests  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maiopinion_stage_total",
				Help: "Pipeline stage calls by outcome (provider or fallback).",
			},
			[]string{"stage", "outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "maiopinion_stage_duration_seconds",
				Help:    "Pipeline stage latency.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage"},
		),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "maiopinion_reminders_sent_total",
			Help: "Follow-up reminders delivered.",
		}),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maiopinion_http_requests_total",
				Help: "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
	}
	m.registry.MustRegister(
		m.stageTotal,
		m.stageDuration,
		m.remindersSent,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveStage(stage, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.stageTotal.WithLabelValues(stage, outcome).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRemindersSent(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.remindersSent.Add(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route, status string) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
