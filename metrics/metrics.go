package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// Registry holds the dashboard metrics. It is separate from the default registry so
	// tests and embedded servers do not collide on registration.
	Registry = prometheus.NewRegistry()

	// HTTPRequestsTotal counts served requests by route template, method and status code.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "incident_dashboard",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests, labeled by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "incident_dashboard",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, labeled by route and method.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"route", "method"})

	// IncidentsResolvedTotal counts successful resolve calls, including repeats.
	IncidentsResolvedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "incident_dashboard",
		Name:      "incidents_resolved_total",
		Help:      "Total number of successful incident resolutions.",
	})

	EventSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "incident_dashboard",
		Subsystem: "events",
		Name:      "subscribers",
		Help:      "Current number of websocket event subscribers.",
	})
)

// Register registers dashboard metrics with Registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			IncidentsResolvedTotal,
			EventSubscribers,
		)
	})
}

// Handler serves Registry in the Prometheus exposition format.
func Handler() http.Handler {
	Register()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
