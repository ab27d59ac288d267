package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	ObservationDuration *prometheus.HistogramVec
	ObservationActive   *prometheus.GaugeVec
	HTTPRequests        *prometheus.CounterVec
	EventsPublished     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ObservationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "observation_duration_seconds",
				Help:    "Duration of named observations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"name", "error"},
		),

		ObservationActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "observation_active",
				Help: "Number of named observations currently in progress",
			},
			[]string{"name"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),

		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_events_published_total",
				Help: "Customer events handed to the broker, by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ObservationDuration,
		m.ObservationActive,
		m.HTTPRequests,
		m.EventsPublished,
	)
	return m
}

// Observe runs fn as the observation called name, recording its duration and
// whether it failed. fn's error is returned unchanged.
func (m *Metrics) Observe(name string, fn func() error) error {
	active := m.ObservationActive.WithLabelValues(name)
	active.Inc()
	defer active.Dec()

	start := time.Now()
	err := fn()

	outcome := "none"
	if err != nil {
		outcome = "error"
	}
	m.ObservationDuration.WithLabelValues(name, outcome).Observe(time.Since(start).Seconds())
	return err
}

// Handler returns the Prometheus metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
