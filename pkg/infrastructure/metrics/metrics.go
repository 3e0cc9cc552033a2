package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vsinha/blacksmith/pkg/application/services/estimation"
	"github.com/vsinha/blacksmith/pkg/application/services/stock"
)

// Metrics holds the process collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	EstimatesTotal      *prometheus.CounterVec
	EstimateDuration    *prometheus.HistogramVec
	StockMutationsTotal *prometheus.CounterVec
}

var (
	_ estimation.Metrics = (*Metrics)(nil)
	_ stock.Metrics      = (*Metrics)(nil)
)

// New registers every collector under prefix
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		EstimatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_estimates_total",
				Help: "Total number of product estimates by result",
			},
			[]string{"result"},
		),
		EstimateDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_estimate_duration_seconds",
				Help:    "Duration of product estimates in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		StockMutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stock_mutations_total",
				Help: "Total number of stock mutation requests by direction and result",
			},
			[]string{"direction", "result"},
		),
	}
}

// ObserveEstimate records one estimate outcome
func (m *Metrics) ObserveEstimate(outcome string, elapsed time.Duration) {
	m.EstimatesTotal.WithLabelValues(outcome).Inc()
	m.EstimateDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveMutation records one stock mutation outcome
func (m *Metrics) ObserveMutation(direction, outcome string) {
	m.StockMutationsTotal.WithLabelValues(direction, outcome).Inc()
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, path, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
