// Package tracing exports configuration reloads as OpenTelemetry spans.
//
// # Overview
//
// Every reload attempt of a config.Store becomes one "config.reload" span
// carrying the store name, the published revision, the number of changed
// paths, and, for rejected reloads, the error and the violated fields.
// Spans are exported to an OTLP collector over gRPC.
//
// # Usage
//
//	tracer, err := tracing.New(&tracing.Config{
//	    Enabled:     true,
//	    Endpoint:    "localhost:4317",
//	    Insecure:    true,
//	    ServiceName: "confstore",
//	    Sampler:     tracing.SamplerAlways,
//	})
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	store := config.NewStore("gui", loader, config.WithObserver(tracer.ReloadObserver()))
//
// # Sampling Strategies
//
//   - always: sample every reload
//   - never: sample nothing
//   - ratio: sample a fraction of reloads (SampleRatio between 0 and 1)
//
// A disabled tracer uses a no-op provider, so observers can be registered
// unconditionally.
package tracing
