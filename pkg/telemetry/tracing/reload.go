package tracing

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vidlearn-hq/confstore/pkg/config"
)

// Span attribute keys for configuration reloads.
const (
	AttrStore          = attribute.Key("confstore.store")
	AttrRevision       = attribute.Key("confstore.revision")
	AttrSource         = attribute.Key("confstore.source")
	AttrAdded          = attribute.Key("confstore.changes.added")
	AttrModified       = attribute.Key("confstore.changes.modified")
	AttrRemoved        = attribute.Key("confstore.changes.removed")
	AttrViolations     = attribute.Key("confstore.violations")
	AttrViolatedFields = attribute.Key("confstore.violated_fields")
)

// ReloadSpanName is the name of the span recorded for each reload.
const ReloadSpanName = "config.reload"

// ReloadObserver returns a config.Observer that records each reload as a
// span covering the load and validation time.
func (t *Tracer) ReloadObserver() config.Observer {
	return config.ObserverFunc(t.observeReload)
}

func (t *Tracer) observeReload(ev config.ReloadEvent) {
	end := time.Now()
	if ev.Current != nil && !ev.Current.LoadedAt.IsZero() {
		end = ev.Current.LoadedAt
	}

	_, span := t.tracer.Start(context.Background(), ReloadSpanName,
		trace.WithTimestamp(end.Add(-ev.Duration)),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(AttrStore.String(ev.Store)),
	)
	defer span.End(trace.WithTimestamp(end))

	if ev.Err != nil {
		var verr *config.ValidationError
		if errors.As(ev.Err, &verr) {
			span.SetAttributes(
				AttrViolations.Int(len(verr.Errors)),
				AttrViolatedFields.StringSlice(verr.Fields()),
			)
		}
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, ev.Err.Error())
		return
	}

	if ev.Current != nil {
		span.SetAttributes(
			AttrRevision.String(ev.Current.Revision),
			AttrSource.String(ev.Current.Source),
		)
	}
	span.SetAttributes(
		AttrAdded.Int(len(ev.Added)),
		AttrModified.Int(len(ev.Modified)),
		AttrRemoved.Int(len(ev.Removed)),
	)
	span.SetStatus(codes.Ok, "")
}
