package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"vidlearn-hq/confstore/pkg/config"
)

// ValidationMetrics tracks schema validation outcomes.
//
// Metrics:
//   - confstore_config_validations_total: Validation runs by target and result
//   - confstore_config_validation_errors_total: Field violations by target and code
//   - confstore_config_unknown_keys: Undeclared keys passed through, by store
type ValidationMetrics struct {
	validationsTotal *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	unknownKeys      *prometheus.GaugeVec
}

// NewValidationMetrics creates and registers validation metrics with the provided registry.
func NewValidationMetrics(cfg *Config, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validations_total",
				Help:      "Total number of validation runs",
			},
			[]string{"target", "result"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_errors_total",
				Help:      "Total number of field violations found by validation",
			},
			[]string{"target", "code"},
		),

		unknownKeys: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "unknown_keys",
				Help:      "Number of undeclared keys passed through unchanged",
			},
			[]string{"store"},
		),
	}

	registry.MustRegister(
		vm.validationsTotal,
		vm.errorsTotal,
		vm.unknownKeys,
	)

	return vm
}

// RecordRun records one validation run.
func (vm *ValidationMetrics) RecordRun(target string, valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	vm.validationsTotal.WithLabelValues(target, result).Inc()
}

// RecordViolations counts errs by violation code.
func (vm *ValidationMetrics) RecordViolations(target string, errs []config.FieldError) {
	for _, fe := range errs {
		vm.errorsTotal.WithLabelValues(target, string(fe.Code)).Inc()
	}
}
