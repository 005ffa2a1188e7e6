// Package metrics expone las métricas Prometheus del servicio de analítica:
// peticiones HTTP, llamadas a los servicios upstream y generación de reportes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Analytics-api/internal/application/analytics"
	"github.com/jhoicas/Analytics-api/internal/infrastructure/upstream"
)

// Verificar en tiempo de compilación que Collector sirve a ambos puertos.
var (
	_ analytics.Recorder = (*Collector)(nil)
	_ upstream.Observer  = (*Collector)(nil)
)

// Collector agrupa los collectors en un registry propio (sin el registry global).
type Collector struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec

	pagesFetched    prometheus.Counter
	fetchTruncated  prometheus.Counter
	reportsTotal    *prometheus.CounterVec
	reportDuration  *prometheus.HistogramVec
	lastReportUnixS *prometheus.GaugeVec
}

// NewCollector crea y registra los collectors bajo namespace (por defecto "analytics").
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "analytics"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Peticiones HTTP en curso.",
		},
	)
	c.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Peticiones HTTP atendidas.",
		},
		[]string{"method", "route", "status"},
	)
	c.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 15), // 5ms a ~80s
		},
		[]string{"method", "route"},
	)

	c.upstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "calls_total",
			Help:      "Llamadas a servicios upstream por resultado.",
		},
		[]string{"service", "outcome"},
	)
	c.upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "call_duration_seconds",
			Help:      "Duración de las llamadas a servicios upstream.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 13), // 5ms a ~20s
		},
		[]string{"service"},
	)

	c.pagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "order_pages_fetched_total",
			Help:      "Páginas de pedidos obtenidas.",
		},
	)
	c.fetchTruncated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "fetch_truncated_total",
			Help:      "Paginaciones cortadas por un error upstream; el reporte se calculó con datos parciales.",
		},
	)
	c.reportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "generated_total",
			Help:      "Reportes generados por tipo y si quedaron degradados.",
		},
		[]string{"kind", "degraded"},
	)
	c.reportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "duration_seconds",
			Help:      "Tiempo de generación del reporte, fetch incluido.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 13),
		},
		[]string{"kind"},
	)
	c.lastReportUnixS = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "last_generated_timestamp_seconds",
			Help:      "Marca de tiempo del último reporte generado.",
		},
		[]string{"kind"},
	)

	c.registry.MustRegister(
		c.httpInFlight,
		c.httpRequests,
		c.httpDuration,
		c.upstreamCalls,
		c.upstreamDuration,
		c.pagesFetched,
		c.fetchTruncated,
		c.reportsTotal,
		c.reportDuration,
		c.lastReportUnixS,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return c
}

// Registry registry con los collectors del servicio.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler handler net/http con la exposición de métricas.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ── HTTP ─────────────────────────────────────────────────────────────────────

// RequestStarted incrementa el gauge de peticiones en curso.
func (c *Collector) RequestStarted() { c.httpInFlight.Inc() }

// ObserveRequest registra una petición terminada. route es la ruta registrada, no la URL.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.httpInFlight.Dec()
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ── Upstream ─────────────────────────────────────────────────────────────────

func (c *Collector) UpstreamCall(service, outcome string, elapsed time.Duration) {
	c.upstreamCalls.WithLabelValues(service, outcome).Inc()
	c.upstreamDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}

// ── Reportes ─────────────────────────────────────────────────────────────────

func (c *Collector) PageFetched()    { c.pagesFetched.Inc() }
func (c *Collector) FetchTruncated() { c.fetchTruncated.Inc() }

func (c *Collector) ReportGenerated(kind string, elapsed time.Duration, degraded bool) {
	c.reportsTotal.WithLabelValues(kind, strconv.FormatBool(degraded)).Inc()
	c.reportDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	c.lastReportUnixS.WithLabelValues(kind).SetToCurrentTime()
}
