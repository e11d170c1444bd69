package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewServerMetrics registers HTTP metrics on a fresh registry, so several
// servers (or tests) can coexist in one process.
func NewServerMetrics(service string) *ServerMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ordersvc",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ordersvc",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency, registry: reg}
}

// Registerer exposes the registry so domain collectors share the endpoint.
func (m *ServerMetrics) Registerer() prometheus.Registerer {
	return m.registry
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

type PlacementMetrics struct {
	Placed   prometheus.Counter
	Rejected *prometheus.CounterVec
	Failed   prometheus.Counter
}

func NewPlacementMetrics(reg prometheus.Registerer) *PlacementMetrics {
	m := &PlacementMetrics{
		Placed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ordersvc",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders accepted and persisted.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ordersvc",
			Subsystem: "orders",
			Name:      "rejected_total",
			Help:      "Orders rejected, by reason.",
		}, []string{"reason"}),
		Failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ordersvc",
			Subsystem: "orders",
			Name:      "failed_total",
			Help:      "Placements aborted by store or infrastructure errors.",
		}),
	}
	reg.MustRegister(m.Placed, m.Rejected, m.Failed)
	return m
}
