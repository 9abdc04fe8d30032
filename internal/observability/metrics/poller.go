package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PollerMetrics contains Prometheus metrics for the dashboard poller
type PollerMetrics struct {
	registry *prometheus.Registry

	pollsTotal        *prometheus.CounterVec
	pollDuration      prometheus.Histogram
	staleDropsTotal   prometheus.Counter
	lastPollTimestamp prometheus.Gauge

	collectors []prometheus.Collector
}

// NewPollerMetrics creates and registers new poller metrics
func NewPollerMetrics(registry *prometheus.Registry) (*PollerMetrics, error) {
	m := &PollerMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *PollerMetrics) initMetrics() {
	m.pollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poller_polls_total",
			Help: "Total number of poll cycles",
		},
		[]string{"status"}, // status: success, error
	)

	m.pollDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poller_poll_duration_seconds",
			Help:    "Time taken for a poll cycle",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount15),
		},
	)

	m.staleDropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poller_stale_responses_dropped_total",
			Help: "Number of poll responses discarded for arriving out of order",
		},
	)

	m.lastPollTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "poller_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful poll",
		},
	)

	m.collectors = []prometheus.Collector{
		m.pollsTotal,
		m.pollDuration,
		m.staleDropsTotal,
		m.lastPollTimestamp,
	}
}

// RecordPoll records a completed poll cycle with its outcome
func (m *PollerMetrics) RecordPoll(status string, seconds float64) {
	m.pollsTotal.WithLabelValues(status).Inc()
	m.pollDuration.Observe(seconds)
}

// RecordStaleDrop records a poll response discarded as stale
func (m *PollerMetrics) RecordStaleDrop() {
	m.staleDropsTotal.Inc()
}

// SetLastSuccess records the time of the last successful poll
func (m *PollerMetrics) SetLastSuccess(unixSeconds float64) {
	m.lastPollTimestamp.Set(unixSeconds)
}

// Describe implements prometheus.Collector
func (m *PollerMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector
func (m *PollerMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors {
		c.Collect(ch)
	}
}
