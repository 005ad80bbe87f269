// Package metrics provides a Prometheus-backed implementation of the
// strategycache MetricsCollector interface.
//
// Basic usage:
//
//	collector, err := metrics.NewPrometheus("myapp", prometheus.DefaultRegisterer)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cache, err := strategycache.New[string, string](strategy,
//		strategycache.WithMetrics(collector),
//	)
//
// The collector registers counters for hits, misses, evictions and
// expirations, a gauge for the current key count, and a histogram of
// operation durations labeled by operation name.
package metrics
