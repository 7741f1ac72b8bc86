package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records outcome metrics for outgoing API requests.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRequest records one completed request with duration,
	// HTTP status (0 when no response was received) and error status.
	RecordRequest(ctx context.Context, meta RequestMeta, duration time.Duration, status int, err error)

	// RecordRetry records one scheduled retry.
	RecordRetry(ctx context.Context, meta RequestMeta)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	retryCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with the given meter. A nil
// meter yields a noop implementation.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	if meter == nil {
		return &noopMetrics{}, nil
	}

	totalCount, err := meter.Int64Counter(
		"api.request.total",
		metric.WithDescription("Total number of API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"api.request.errors",
		metric.WithDescription("Total number of failed API requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"api.request.retries",
		metric.WithDescription("Total number of API request retries"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"api.request.duration_ms",
		metric.WithDescription("API request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		retryCount:   retryCount,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordRequest(ctx context.Context, meta RequestMeta, duration time.Duration, status int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", meta.Method),
		attribute.String("http.endpoint", meta.Endpoint),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status", status))
	}

	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordRetry(ctx context.Context, meta RequestMeta) {
	m.retryCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.method", meta.Method),
		attribute.String("http.endpoint", meta.Endpoint),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordRequest(ctx context.Context, meta RequestMeta, duration time.Duration, status int, err error) {
}

func (m *noopMetrics) RecordRetry(ctx context.Context, meta RequestMeta) {}

// NewNoopMetrics returns a Metrics that records nothing.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = (*noopMetrics)(nil)
)
