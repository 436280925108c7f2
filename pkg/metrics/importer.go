package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImporterMetrics records outcomes of supplier feed imports.
type ImporterMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	upserts  *prometheus.CounterVec
}

// NewImporterMetrics registers the feed import metrics on the provided registerer.
func NewImporterMetrics(reg prometheus.Registerer) *ImporterMetrics {
	if reg == nil {
		return &ImporterMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feed_import_duration_seconds",
		Help:    "Duration of supplier feed imports in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"shop"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_import_success",
		Help: "Successful supplier feed imports.",
	}, []string{"shop"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_import_failure",
		Help: "Failed supplier feed imports.",
	}, []string{"shop"})
	upserts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_import_goods_upserted",
		Help: "Product listings created or updated by feed imports.",
	}, []string{"shop"})
	reg.MustRegister(duration, success, failure, upserts)
	return &ImporterMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		upserts:  upserts,
	}
}

// ObserveDuration records the import duration for the named shop.
func (m *ImporterMetrics) ObserveDuration(shop string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(shop)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named shop.
func (m *ImporterMetrics) IncSuccess(shop string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(shop)).Inc()
}

// IncFailure increments the failure counter for the named shop.
func (m *ImporterMetrics) IncFailure(shop string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(shop)).Inc()
}

// AddUpserts adds the number of listings written for the named shop.
func (m *ImporterMetrics) AddUpserts(shop string, count int) {
	if m == nil || m.upserts == nil {
		return
	}
	if count <= 0 {
		return
	}
	m.upserts.WithLabelValues(normalizeLabel(shop)).Add(float64(count))
}

func normalizeLabel(shop string) string {
	if shop == "" {
		return "unknown"
	}
	return shop
}
