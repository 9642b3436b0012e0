// Package telemetry groups the observability packages used by confstore.
//
// # Components
//
//   - logging: structured slog logging with secret redaction
//   - metrics: Prometheus reload and validation metrics
//   - tracing: OpenTelemetry spans for reloads
//   - health: liveness and readiness endpoints
//
// Each component observes a config.Store through the config.Observer
// interface, so they can be combined freely:
//
//	store := config.NewStore("gui", loader,
//	    config.WithLogger(logger.Slog()),
//	    config.WithObserver(collector),
//	    config.WithObserver(tracer.ReloadObserver()),
//	    config.WithObserver(readiness),
//	)
package telemetry
