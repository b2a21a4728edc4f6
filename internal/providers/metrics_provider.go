package providers

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"scoringd/internal/services"
	"scoringd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncSnapshotsTotal()
	IncContentScored(sentiment string)
	IncTrendsDetected(metric, direction string)
	AddSnapshotsPruned(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	snapshotsTotal      prometheus.Counter
	contentScored       *prometheus.CounterVec
	trendsDetected      *prometheus.CounterVec
	snapshotsPruned     prometheus.Counter
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

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSnapshotsTotal() {
	m.snapshotsTotal.Inc()
}

func (m *MetricsProvider) IncContentScored(sentiment string) {
	m.contentScored.WithLabelValues(sentiment).Inc()
}

func (m *MetricsProvider) IncTrendsDetected(metric, direction string) {
	m.trendsDetected.WithLabelValues(metric, direction).Inc()
}

func (m *MetricsProvider) AddSnapshotsPruned(count int) {
	m.snapshotsPruned.Add(float64(count))
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

func NewMetricsProvider(conf *structures.Config, service services.AnalyticsServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}
	return newMetricsProvider(prometheus.DefaultRegisterer, service)
}

func newMetricsProvider(reg prometheus.Registerer, service services.AnalyticsServiceInterface) *MetricsProvider {
	factory := promauto.With(reg)
	m := &MetricsProvider{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scoringd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scoringd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoringd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoringd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scoringd_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		snapshotsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoringd_snapshots_total",
			Help: "Total number of engagement snapshots recorded",
		}),

		contentScored: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scoringd_content_scored_total",
			Help: "Total number of scored content pieces by sentiment",
		}, []string{"sentiment"}),

		trendsDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scoringd_trends_detected_total",
			Help: "Total number of detected trends by metric and direction",
		}, []string{"metric", "direction"}),

		snapshotsPruned: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoringd_snapshots_pruned_total",
			Help: "Total number of snapshots removed by retention",
		}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "scoringd_subjects_total",
		Help: "Current number of subjects with history",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		subjects, err := service.GetSubjects(ctx)
		if err != nil {
			return 0
		}
		return float64(len(subjects))
	})

	return m
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncSnapshotsTotal()                               {}
func (n *noopMetrics) IncContentScored(_ string)                        {}
func (n *noopMetrics) IncTrendsDetected(_, _ string)                    {}
func (n *noopMetrics) AddSnapshotsPruned(_ int)                         {}
