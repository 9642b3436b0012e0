package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReloadMetrics tracks configuration reloads.
//
// Metrics:
//   - confstore_config_reloads_total: Reload attempts by store and result
//   - confstore_config_reload_duration_seconds: Load and validation time
//   - confstore_config_last_reload_success_timestamp_seconds: Time of the last published snapshot
//   - confstore_config_changes_total: Leaf paths changed by published reloads
type ReloadMetrics struct {
	reloadsTotal *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	lastSuccess  *prometheus.GaugeVec
	changesTotal *prometheus.CounterVec
}

// NewReloadMetrics creates and registers reload metrics with the provided registry.
func NewReloadMetrics(cfg *Config, registry *prometheus.Registry) *ReloadMetrics {
	rm := &ReloadMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reloads_total",
				Help:      "Total number of configuration reload attempts",
			},
			[]string{"store", "result"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reload_duration_seconds",
				Help:      "Time spent loading and validating configuration",
				Buckets:   cfg.ReloadDurationBuckets,
			},
			[]string{"store"},
		),

		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_reload_success_timestamp_seconds",
				Help:      "Unix time of the last successfully published configuration",
			},
			[]string{"store"},
		),

		changesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "changes_total",
				Help:      "Total number of configuration leaves changed by reloads",
			},
			[]string{"store", "change"},
		),
	}

	registry.MustRegister(
		rm.reloadsTotal,
		rm.duration,
		rm.lastSuccess,
		rm.changesTotal,
	)

	return rm
}

// RecordSuccess records a published reload.
func (rm *ReloadMetrics) RecordSuccess(store string, duration time.Duration, loadedAt time.Time) {
	rm.reloadsTotal.WithLabelValues(store, "success").Inc()
	rm.duration.WithLabelValues(store).Observe(duration.Seconds())
	rm.lastSuccess.WithLabelValues(store).Set(float64(loadedAt.UnixNano()) / 1e9)
}

// RecordFailure records a rejected reload.
func (rm *ReloadMetrics) RecordFailure(store string, duration time.Duration) {
	rm.reloadsTotal.WithLabelValues(store, "failure").Inc()
	rm.duration.WithLabelValues(store).Observe(duration.Seconds())
}

// RecordChanges records the number of added, modified and removed leaves.
func (rm *ReloadMetrics) RecordChanges(store string, added, modified, removed int) {
	if added > 0 {
		rm.changesTotal.WithLabelValues(store, "added").Add(float64(added))
	}
	if modified > 0 {
		rm.changesTotal.WithLabelValues(store, "modified").Add(float64(modified))
	}
	if removed > 0 {
		rm.changesTotal.WithLabelValues(store, "removed").Add(float64(removed))
	}
}
