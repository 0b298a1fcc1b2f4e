// Package metrics exposes Prometheus instrumentation for domain queries,
// edits and the HTTP surface.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusError    = "error"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	defaultRegistry *Registry
	once            sync.Once
)

// Registry holds every collector on its own prometheus registry
type Registry struct {
	registry *prometheus.Registry

	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	EditsTotal *prometheus.CounterVec

	RelatedCacheTotal *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DomainsLoaded      prometheus.Gauge
	DanglingReferences prometheus.Gauge
	EventClients       prometheus.Gauge
}

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.initQueryMetrics()
	r.initEditMetrics()
	r.initHTTPMetrics()
	r.initCatalogMetrics()

	return r
}

func (r *Registry) initQueryMetrics() {
	r.QueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainverse_queries_total",
			Help: "Total number of graph queries",
		},
		[]string{"operation", "status"},
	)

	r.QueryDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "domainverse_query_duration_seconds",
			Help:    "Graph query duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
		[]string{"operation"},
	)

	r.RelatedCacheTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainverse_related_cache_total",
			Help: "Related-domain closure cache lookups",
		},
		[]string{"result"},
	)
}

func (r *Registry) initEditMetrics() {
	r.EditsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainverse_edits_total",
			Help: "Total number of name and verb edits",
		},
		[]string{"kind", "status"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainverse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "domainverse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
}

func (r *Registry) initCatalogMetrics() {
	r.DomainsLoaded = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "domainverse_domains_loaded",
		Help: "Number of domains in the loaded catalog",
	})

	r.DanglingReferences = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "domainverse_dangling_references",
		Help: "Links and parents in the catalog that do not resolve",
	})

	r.EventClients = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "domainverse_event_clients",
		Help: "Connected server-sent event clients",
	})
}

// RecordQuery records a graph query
func (r *Registry) RecordQuery(operation, status string, duration time.Duration) {
	r.QueriesTotal.WithLabelValues(operation, status).Inc()
	r.QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordEdit records a name or verb edit
func (r *Registry) RecordEdit(kind, status string) {
	r.EditsTotal.WithLabelValues(kind, status).Inc()
}

// RecordCache records a closure cache lookup
func (r *Registry) RecordCache(hit bool) {
	if hit {
		r.RelatedCacheTotal.WithLabelValues(CacheHit).Inc()
		return
	}
	r.RelatedCacheTotal.WithLabelValues(CacheMiss).Inc()
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// SetCatalog records the size and health of the loaded catalog
func (r *Registry) SetCatalog(domains, dangling int) {
	r.DomainsLoaded.Set(float64(domains))
	r.DanglingReferences.Set(float64(dangling))
}

// Handler serves this registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
