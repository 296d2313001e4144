package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dropzero"

// Metrics holds the Prometheus collectors shared by the backend services.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec // labels: route, method, status

	ReadingsIngested  *prometheus.CounterVec // labels: method={manual,automated}
	IngestionRejected *prometheus.CounterVec // labels: reason={no_meter,too_low,invalid,store}

	CacheLookups *prometheus.CounterVec // labels: key, result={hit,miss,error}

	FeedSubscribers prometheus.Gauge
	AlertsPublished prometheus.Counter
}

// NewMetrics creates all collectors and registers them with reg. A nil
// registerer leaves them unregistered, which lets tests build as many
// instances as they like.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status code.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "status"}),
		ReadingsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_ingested_total",
			Help:      "Weekly readings stored, by reading method.",
		}, []string{"method"}),
		IngestionRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_rejected_total",
			Help:      "Reading submissions that were not stored, by reason.",
		}, []string{"reason"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_cache_lookups_total",
			Help:      "Aggregate cache lookups by key and result.",
		}, []string{"key", "result"}),
		FeedSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alert_feed_subscribers",
			Help:      "Admin sessions currently subscribed to the live alert feed.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      "Anomalous readings pushed to the live alert feed.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.HTTPRequestDuration,
			m.ReadingsIngested,
			m.IngestionRejected,
			m.CacheLookups,
			m.FeedSubscribers,
			m.AlertsPublished,
		)
	}

	return m
}
