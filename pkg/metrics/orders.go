package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records the order read/update and notification activity.
type OrderMetrics struct {
	listDuration  *prometheus.HistogramVec
	updatesTotal  *prometheus.CounterVec
	filesWritten  prometheus.Counter
	notifications *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	listDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_list_duration_seconds",
		Help:    "Duration of order file list operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"store"})
	updatesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_updates_total",
		Help: "Order line item edits by outcome.",
	}, []string{"outcome"})
	filesWritten := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_files_written_total",
		Help: "Order files rewritten after an update batch.",
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "WhatsApp notification attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(listDuration, updatesTotal, filesWritten, notifications)
	return &OrderMetrics{
		listDuration:  listDuration,
		updatesTotal:  updatesTotal,
		filesWritten:  filesWritten,
		notifications: notifications,
	}
}

// ObserveListDuration records how long a list call took for the store label.
func (m *OrderMetrics) ObserveListDuration(store string, duration time.Duration) {
	if m == nil || m.listDuration == nil {
		return
	}
	m.listDuration.WithLabelValues(normalizeLabel(store)).Observe(duration.Seconds())
}

// IncUpdates adds n edits with the given outcome (applied, skipped, unchanged).
func (m *OrderMetrics) IncUpdates(outcome string, n int) {
	if m == nil || m.updatesTotal == nil || n <= 0 {
		return
	}
	m.updatesTotal.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}

// IncFileWritten counts one order file rewrite.
func (m *OrderMetrics) IncFileWritten() {
	if m == nil || m.filesWritten == nil {
		return
	}
	m.filesWritten.Inc()
}

// IncNotification counts one notification attempt by outcome (sent, failed, skipped).
func (m *OrderMetrics) IncNotification(outcome string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
