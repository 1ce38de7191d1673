// Package tracing starts child spans only. Work that runs outside a traced
// request or job, such as /healthz or startup, records nothing.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var noopSpan = trace.SpanFromContext(context.Background())

type Tracer struct {
	tracer trace.Tracer
	keep   func(name string) bool
}

// New returns a tracer for scope. keep filters span names; nil keeps all.
func New(scope string, keep func(name string) bool) Tracer {
	return Tracer{tracer: otel.Tracer(scope), keep: keep}
}

func (t Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if name == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if t.keep != nil && !t.keep(name) {
		return ctx, noopSpan
	}
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Fail marks span as errored. A nil err is ignored.
func Fail(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// IDs returns the hex trace and span id of the span in ctx, or empty
// strings when there is none.
func IDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
