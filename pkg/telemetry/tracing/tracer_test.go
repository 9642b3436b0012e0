package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"vidlearn-hq/confstore/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		wantErr     bool
		wantEnabled bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:   "disabled tracing",
			config: &Config{Enabled: false},
		},
		{
			name:    "enabled without endpoint",
			config:  &Config{Enabled: true},
			wantErr: true,
		},
		{
			name: "enabled with otlp endpoint",
			config: &Config{
				Enabled:  true,
				Endpoint: "localhost:4317",
				Insecure: true,
				Timeout:  time.Second,
				Sampler:  SamplerAlways,
			},
			wantEnabled: true,
		},
		{
			name: "invalid sampler",
			config: &Config{
				Enabled:  true,
				Endpoint: "localhost:4317",
				Sampler:  "sometimes",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{"", 0, false},
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.5, false},
		{SamplerRatio, 1.5, true},
		{SamplerRatio, -0.1, true},
		{"random", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			_, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Errorf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
			}
		})
	}
}

func newTestTracer(t *testing.T, sampler string) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(&Config{Enabled: true, Sampler: sampler}, exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error: %v", err)
	}
	t.Cleanup(func() { tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestReloadObserver_Applied(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerAlways)

	loadedAt := time.Now()
	tracer.ReloadObserver().ObserveReload(config.ReloadEvent{
		Store:    "gui",
		Current:  &config.Snapshot{Revision: "rev-1", Source: "gui_config.json", LoadedAt: loadedAt},
		Duration: 20 * time.Millisecond,
		Modified: []string{"threading.max_worker_threads"},
	})

	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error: %v", err)
	}
	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}

	span := spans[0]
	if span.Name != ReloadSpanName {
		t.Errorf("span name = %q, want %q", span.Name, ReloadSpanName)
	}
	if span.Status.Code != codes.Ok {
		t.Errorf("status = %v, want Ok", span.Status.Code)
	}
	if got := span.EndTime.Sub(span.StartTime); got != 20*time.Millisecond {
		t.Errorf("span duration = %v, want 20ms", got)
	}

	attrs := attrMap(span.Attributes)
	if attrs[AttrStore].AsString() != "gui" {
		t.Errorf("store = %q, want gui", attrs[AttrStore].AsString())
	}
	if attrs[AttrRevision].AsString() != "rev-1" {
		t.Errorf("revision = %q, want rev-1", attrs[AttrRevision].AsString())
	}
	if attrs[AttrModified].AsInt64() != 1 {
		t.Errorf("modified = %d, want 1", attrs[AttrModified].AsInt64())
	}
}

func TestReloadObserver_Rejected(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerAlways)

	verr := &config.ValidationError{Errors: []config.FieldError{
		{Field: "ollama.temperature", Code: config.CodeOutOfRange, Message: "value 3 is outside [0, 2]"},
		{Field: "performance.max_cache_size", Code: config.CodeOutOfRange, Message: "value -5 is outside [0, +inf)"},
	}}
	tracer.ReloadObserver().ObserveReload(config.ReloadEvent{
		Store: "translation",
		Err:   errors.Join(errors.New("reload"), verr),
	})

	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error: %v", err)
	}
	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}

	span := spans[0]
	if span.Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", span.Status.Code)
	}
	if len(span.Events) == 0 || span.Events[0].Name != "exception" {
		t.Error("error should be recorded as an exception event")
	}

	attrs := attrMap(span.Attributes)
	if attrs[AttrViolations].AsInt64() != 2 {
		t.Errorf("violations = %d, want 2", attrs[AttrViolations].AsInt64())
	}
	fields := attrs[AttrViolatedFields].AsStringSlice()
	if len(fields) != 2 || fields[0] != "ollama.temperature" {
		t.Errorf("violated fields = %v", fields)
	}
}

func TestReloadObserver_NeverSampled(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerNever)

	tracer.ReloadObserver().ObserveReload(config.ReloadEvent{Store: "gui", Current: &config.Snapshot{}})
	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error: %v", err)
	}
	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("got %d spans, want 0", n)
	}
}

func TestReloadObserver_Disabled(t *testing.T) {
	tracer, err := New(&Config{Enabled: false})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	// A disabled tracer must accept events without exporting anything.
	tracer.ReloadObserver().ObserveReload(config.ReloadEvent{Store: "gui", Err: errors.New("boom")})
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}
