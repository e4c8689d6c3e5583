package querycache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the cache counters. A nil *Metrics records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "query_cache_requests_total",
				Help: "Cache reads by entity and result (hit, stale, miss).",
			},
			[]string{"entity", "result"},
		),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "query_cache_fetches_total",
				Help: "Remote fetches by entity and outcome.",
			},
			[]string{"entity", "outcome"},
		),
		invalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "query_cache_invalidations_total",
				Help: "Entries invalidated, by entity.",
			},
			[]string{"entity"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "query_cache_fetch_duration_seconds",
				Help:    "Duration of remote fetches.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"entity"},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.fetches, m.invalidations, m.fetchDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) request(entity, result string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(entity, result).Inc()
}

func (m *Metrics) fetched(entity string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.fetches.WithLabelValues(entity, outcome).Inc()
	m.fetchDuration.WithLabelValues(entity).Observe(d.Seconds())
}

func (m *Metrics) invalidated(entity string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.invalidations.WithLabelValues(entity).Add(float64(n))
}
