package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry — собственный реестр вместо глобального по умолчанию:
// тесты поднимают приложение много раз в одном процессе.
var Registry *prometheus.Registry

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// IngestInserted считает строки, добавленные инжестом каталога USGS.
	IngestInserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "usgs_ingest_inserted_total",
			Help: "Total number of earthquake rows inserted by USGS ingestion",
		},
	)
)

func init() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(httpRequestsTotal)
	Registry.MustRegister(httpRequestDuration)
	Registry.MustRegister(IngestInserted)
}

// Handler отдаёт /metrics по собственному реестру.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest фиксирует завершённый HTTP-запрос. route — шаблон
// маршрута, а не фактический путь, чтобы не раздувать кардинальность.
func ObserveRequest(method, route string, status int, seconds float64) {
	s := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, s).Inc()
	httpRequestDuration.WithLabelValues(method, route, s).Observe(seconds)
}
