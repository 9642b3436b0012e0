package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"vidlearn-hq/confstore/pkg/config"
)

// Config controls metric naming and collection.
type Config struct {
	// Enabled turns recording on. A disabled collector still serves an
	// empty registry.
	Enabled bool

	// Namespace and Subsystem prefix every metric name.
	Namespace string
	Subsystem string

	// ReloadDurationBuckets are the histogram buckets for reload duration in seconds.
	ReloadDurationBuckets []float64
}

// DefaultConfig returns an enabled configuration with the default names.
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Namespace: "confstore",
		Subsystem: "config",
	}
}

// Collector records configuration reload metrics. It implements
// config.Observer, so it can be attached to a Store directly:
//
//	collector := metrics.NewCollector(metrics.DefaultConfig(), nil)
//	store := config.NewStore("gui", loader, config.WithObserver(collector))
//	http.Handle("/metrics", collector.Handler())
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	reloadMetrics     *ReloadMetrics
	validationMetrics *ValidationMetrics
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil, a new registry is created.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "confstore"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "config"
	}
	if len(cfg.ReloadDurationBuckets) == 0 {
		// Local file loads: 1ms to 5s
		cfg.ReloadDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	}

	return &Collector{
		config:            cfg,
		registry:          registry,
		reloadMetrics:     NewReloadMetrics(cfg, registry),
		validationMetrics: NewValidationMetrics(cfg, registry),
	}
}

// Registry returns the registry the collector's metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveReload records a reload attempt.
func (c *Collector) ObserveReload(ev config.ReloadEvent) {
	if !c.config.Enabled {
		return
	}

	if ev.Err != nil {
		c.reloadMetrics.RecordFailure(ev.Store, ev.Duration)
		var verr *config.ValidationError
		if errors.As(ev.Err, &verr) {
			c.validationMetrics.RecordViolations(ev.Store, verr.Errors)
		}
		return
	}

	loadedAt := time.Now()
	if ev.Current != nil {
		loadedAt = ev.Current.LoadedAt
	}
	c.reloadMetrics.RecordSuccess(ev.Store, ev.Duration, loadedAt)
	c.reloadMetrics.RecordChanges(ev.Store, len(ev.Added), len(ev.Modified), len(ev.Removed))
}

// RecordValidation records the outcome of a one-off validation, such as
// the validate command, outside any Store.
func (c *Collector) RecordValidation(profile string, errs []config.FieldError) {
	if !c.config.Enabled {
		return
	}
	c.validationMetrics.RecordRun(profile, len(errs) == 0)
	c.validationMetrics.RecordViolations(profile, errs)
}

// RecordUnknownKeys sets the number of undeclared keys passed through for a store.
func (c *Collector) RecordUnknownKeys(store string, n int) {
	if !c.config.Enabled {
		return
	}
	c.validationMetrics.unknownKeys.WithLabelValues(store).Set(float64(n))
}
