package providers

import (
	"catalogd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveContentLoadDuration(kind string, duration time.Duration)
	IncContentRefreshTotal(result string)
	SetEntitiesTotal(kind string, count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	contentLoadDuration *prometheus.HistogramVec
	contentRefreshTotal *prometheus.CounterVec
	entitiesTotal       *prometheus.GaugeVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveContentLoadDuration(kind string, duration time.Duration) {
	m.contentLoadDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncContentRefreshTotal(result string) {
	m.contentRefreshTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) SetEntitiesTotal(kind string, count int) {
	m.entitiesTotal.WithLabelValues(kind).Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalogd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalogd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalogd_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalogd_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		contentLoadDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalogd_content_load_duration_seconds",
			Help:    "Duration of content collection loads in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),

		contentRefreshTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalogd_content_refresh_total",
			Help: "Total number of scheduled content refresh runs",
		}, []string{"result"}),

		entitiesTotal: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalogd_entities_total",
			Help: "Number of loaded entities per collection",
		}, []string{"kind"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                      {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)      {}
func (n *noopMetrics) IncCacheHits()                                         {}
func (n *noopMetrics) IncCacheMisses()                                       {}
func (n *noopMetrics) ObserveContentLoadDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncContentRefreshTotal(_ string)                       {}
func (n *noopMetrics) SetEntitiesTotal(_ string, _ int)                      {}
