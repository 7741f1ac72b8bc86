package observe

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// RequestMeta identifies one outgoing API request for telemetry.
type RequestMeta struct {
	ID       string // Generated request id (required)
	Method   string // HTTP method
	Endpoint string // Endpoint path, e.g. /predict
	Attempt  int    // 0 for the initial attempt, 1..n for retries
}

// SpanName returns the deterministic span name for this request.
// Format: api.request.<endpoint> with the leading slash stripped and
// inner slashes flattened, e.g. api.request.api.community-insights.
func (m RequestMeta) SpanName() string {
	ep := strings.TrimPrefix(m.Endpoint, "/")
	ep = strings.ReplaceAll(ep, "/", ".")
	return "api.request." + ep
}

// Tracer wraps OpenTelemetry tracing with request-scoped span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for an outgoing request.
	StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer backed by the given otel tracer. A nil
// tracer yields a noop implementation.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		t = tracenoop.NewTracerProvider().Tracer("noop")
	}
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("request.id", meta.ID),
		attribute.String("http.method", meta.Method),
		attribute.String("http.endpoint", meta.Endpoint),
	}
	if meta.Attempt > 0 {
		attrs = append(attrs, attribute.Int("request.attempt", meta.Attempt))
	}

	return t.tracer.Start(ctx, meta.SpanName(), trace.WithAttributes(attrs...))
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Ensure tracerImpl implements Tracer
var _ Tracer = (*tracerImpl)(nil)
