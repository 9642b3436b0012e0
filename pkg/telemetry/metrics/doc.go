// Package metrics provides Prometheus metrics for configuration loading.
//
// # Metrics Categories
//
//   - Reload Metrics: reload attempts, duration, last success time, changed leaves
//   - Validation Metrics: validation runs, violations by code, unknown keys
//
// # Usage
//
//	collector := metrics.NewCollector(metrics.DefaultConfig(), nil)
//
//	// Attach to a store; every reload is recorded
//	store := config.NewStore("gui", loader, config.WithObserver(collector))
//
//	// Expose to Prometheus
//	http.Handle("/metrics", collector.Handler())
//
// # Cardinality
//
// Labels are limited to store or profile names, results and violation
// codes, all of which come from a small closed set. Field paths are never
// used as label values.
package metrics
