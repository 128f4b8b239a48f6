package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registry isolado para não misturar com o registro padrão do processo
var registry = prometheus.NewRegistry()

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tpa_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tpa_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	entriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tpa_entries_total",
		Help: "Entries written by operation",
	}, []string{"operation"})

	insightComputations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tpa_insight_computations_total",
		Help: "Insight computations by kind",
	}, []string{"kind"})

	insightRecords = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tpa_insight_records",
		Help:    "Number of records per insight computation",
		Buckets: []float64{0, 3, 10, 50, 100, 500, 1000, 5000},
	}, []string{"kind"})

	insightDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tpa_insight_duration_seconds",
		Help:    "Insight computation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms a ~800ms
	}, []string{"kind"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tpa_insight_cache_lookups_total",
		Help: "Insight cache lookups by result",
	}, []string{"result"})

	exportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tpa_exports_total",
		Help: "Spreadsheet exports by result",
	}, []string{"result"})

	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tpa_websocket_connections",
		Help: "Active WebSocket connections",
	})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		entriesTotal,
		insightComputations,
		insightRecords,
		insightDuration,
		cacheLookups,
		exportsTotal,
		wsConnections,
	)
}

// ObserveHTTP registra uma requisição HTTP concluída
func ObserveHTTP(route, method string, status int, seconds float64) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(seconds)
}

// Handler expõe as métricas no formato de texto do Prometheus
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Registry retorna o registro usado pela aplicação
func Registry() *prometheus.Registry {
	return registry
}
