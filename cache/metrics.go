package cache

import (
	"github.com/builtnorth/schemagraph/metric"
	"github.com/prometheus/client_golang/prometheus"
)

// cacheMetrics holds Prometheus metrics for cache operations.
type cacheMetrics struct {
	hits    prometheus.Counter
	misses  prometheus.Counter
	sets    prometheus.Counter
	deletes prometheus.Counter
	purges  prometheus.Counter

	memoSize prometheus.Gauge
}

// newCacheMetrics creates and registers cache metrics with the provided registry.
func newCacheMetrics(registry *metric.MetricsRegistry, prefix string) (*cacheMetrics, error) {
	m := &cacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "schemagraph",
			Subsystem:   "cache",
			Name:        "hits_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "schemagraph",
			Subsystem:   "cache",
			Name:        "misses_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of cache misses",
		}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "schemagraph",
			Subsystem:   "cache",
			Name:        "sets_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of cache set operations",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "schemagraph",
			Subsystem:   "cache",
			Name:        "deletes_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of cache delete operations",
		}),
		purges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "schemagraph",
			Subsystem:   "cache",
			Name:        "purges_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of entries removed by pattern deletes and flushes",
		}),
		memoSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "schemagraph",
			Subsystem:   "cache",
			Name:        "memo_size",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Current number of entries in the memo layer",
		}),
	}

	// Register all metrics with the registry
	if err := registry.RegisterCounter(prefix, "cache_hits", m.hits); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "cache_misses", m.misses); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "cache_sets", m.sets); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "cache_deletes", m.deletes); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "cache_purges", m.purges); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "cache_memo_size", m.memoSize); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *cacheMetrics) recordHit()    { m.hits.Inc() }
func (m *cacheMetrics) recordMiss()   { m.misses.Inc() }
func (m *cacheMetrics) recordSet()    { m.sets.Inc() }
func (m *cacheMetrics) recordDelete() { m.deletes.Inc() }

func (m *cacheMetrics) recordPurge(count int) {
	m.purges.Add(float64(count))
}

func (m *cacheMetrics) updateMemoSize(size int) {
	m.memoSize.Set(float64(size))
}
