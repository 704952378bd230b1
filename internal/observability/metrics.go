package observability

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

const namespace = "petlabel"

// Metrics owns a private registry. All methods are no-ops on a nil receiver
// so callers never branch on whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	labelsSubmitted      *prometheus.CounterVec
	labelBatches         *prometheus.CounterVec
	imagesRegistered     prometheus.Counter
	imageSize            prometheus.Histogram
	notificationFailures *prometheus.CounterVec
	aggregationFallbacks *prometheus.CounterVec
	dbStats              *prometheus.GaugeVec
}

func NewMetrics() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total API requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)
	m.apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request latency in seconds by method and route.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "route"},
	)
	m.apiInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "api_inflight_requests",
		Help:      "In-flight API requests.",
	})
	m.labelsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "labels_submitted_total",
			Help:      "Label rows persisted, by label type.",
		},
		[]string{"label_type"},
	)
	m.labelBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "label_batches_total",
			Help:      "Label submission batches by outcome (ok, forbidden, invalid, failed).",
		},
		[]string{"outcome"},
	)
	m.imagesRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_registered_total",
		Help:      "Images registered from storage events.",
	})
	m.imageSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_size_kilobytes",
		Help:      "Size of registered images in KiB.",
		Buckets:   prometheus.ExponentialBuckets(16, 2, 10),
	})
	m.notificationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Best-effort notifications that failed to publish, by topic.",
		},
		[]string{"topic"},
	)
	m.aggregationFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregation_fallbacks_total",
			Help:      "Aggregation sub-queries that failed and were substituted with an empty result.",
		},
		[]string{"source"},
	)
	m.dbStats = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool",
			Help:      "database/sql pool statistics.",
		},
		[]string{"stat"},
	)

	for _, c := range []prometheus.Collector{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.labelsSubmitted,
		m.labelBatches,
		m.imagesRegistered,
		m.imageSize,
		m.notificationFailures,
		m.aggregationFallbacks,
		m.dbStats,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncLabelsSubmitted(labelType string, n int) {
	if m == nil || n <= 0 {
		return
	}
	labelType = strings.TrimSpace(labelType)
	if labelType == "" {
		labelType = "unknown"
	}
	m.labelsSubmitted.WithLabelValues(labelType).Add(float64(n))
}

func (m *Metrics) IncLabelBatch(outcome string) {
	if m == nil {
		return
	}
	m.labelBatches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncImagesRegistered() {
	if m == nil {
		return
	}
	m.imagesRegistered.Inc()
}

func (m *Metrics) ObserveImageSize(bytes int64) {
	if m == nil || bytes <= 0 {
		return
	}
	m.imageSize.Observe(float64(bytes) / 1024)
}

func (m *Metrics) IncNotificationFailure(topic string) {
	if m == nil {
		return
	}
	m.notificationFailures.WithLabelValues(topic).Inc()
}

func (m *Metrics) IncAggregationFallback(source string) {
	if m == nil {
		return
	}
	m.aggregationFallbacks.WithLabelValues(source).Inc()
}

// StartDBCollector samples pool stats until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.dbStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.dbStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.dbStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.dbStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
			}
		}
	}()
}
