package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	strategycache "github.com/raniellyferreira/strategy-cache"
)

// Prometheus collects cache metrics into Prometheus instruments.
type Prometheus struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	evictions   prometheus.Counter
	expirations prometheus.Counter
	keyCount    prometheus.Gauge
	opDuration  *prometheus.HistogramVec
}

var _ strategycache.MetricsCollector = (*Prometheus)(nil)

// NewPrometheus creates a collector and registers its instruments with
// the given registerer under the given namespace.
func NewPrometheus(namespace string, reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Number of Get calls that returned a valid entry.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Number of Get calls on absent keys.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Number of entries removed by replacement passes.",
		}),
		expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "expirations_total",
			Help:      "Number of entries removed by failed validity checks.",
		}),
		keyCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "keys",
			Help:      "Current number of stored entries.",
		}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operation_duration_seconds",
			Help:      "Duration of cache operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	collectors := []prometheus.Collector{
		p.hits, p.misses, p.evictions, p.expirations, p.keyCount, p.opDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// RecordHit increments the hit counter
func (p *Prometheus) RecordHit() {
	p.hits.Inc()
}

// RecordMiss increments the miss counter
func (p *Prometheus) RecordMiss() {
	p.misses.Inc()
}

// RecordEviction adds the evicted entry count
func (p *Prometheus) RecordEviction(count int) {
	p.evictions.Add(float64(count))
}

// RecordExpiration increments the expiration counter
func (p *Prometheus) RecordExpiration() {
	p.expirations.Inc()
}

// RecordKeyCount sets the key count gauge
func (p *Prometheus) RecordKeyCount(count int64) {
	p.keyCount.Set(float64(count))
}

// RecordOperation observes an operation duration
func (p *Prometheus) RecordOperation(op string, duration time.Duration) {
	p.opDuration.WithLabelValues(op).Observe(duration.Seconds())
}
