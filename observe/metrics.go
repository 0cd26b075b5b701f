package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records session lifecycle metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; recording is fire-and-forget.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRefresh records one caller's view of a refresh cycle.
	// shared is true when the cycle's outcome was shared among
	// multiple concurrent callers.
	RecordRefresh(ctx context.Context, duration time.Duration, shared bool, err error)

	// RecordTransition records a session status transition.
	RecordTransition(ctx context.Context, from, to string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	refreshTotal    metric.Int64Counter
	refreshDedup    metric.Int64Counter
	refreshErrors   metric.Int64Counter
	refreshDuration metric.Float64Histogram
	transitions     metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	refreshTotal, err := meter.Int64Counter(
		"session.refresh.total",
		metric.WithDescription("Refresh demands observed (including coalesced callers)"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	refreshDedup, err := meter.Int64Counter(
		"session.refresh.dedup",
		metric.WithDescription("Refresh demands that shared a cycle with other callers"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	refreshErrors, err := meter.Int64Counter(
		"session.refresh.errors",
		metric.WithDescription("Refresh demands that settled with an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	refreshDuration, err := meter.Float64Histogram(
		"session.refresh.duration_ms",
		metric.WithDescription("Time a caller waited for refresh settlement in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"session.transitions",
		metric.WithDescription("Session status transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		refreshTotal:    refreshTotal,
		refreshDedup:    refreshDedup,
		refreshErrors:   refreshErrors,
		refreshDuration: refreshDuration,
		transitions:     transitions,
	}, nil
}

// RecordRefresh records metrics for one caller's refresh demand.
func (m *metricsImpl) RecordRefresh(ctx context.Context, duration time.Duration, shared bool, err error) {
	m.refreshTotal.Add(ctx, 1)
	if shared {
		m.refreshDedup.Add(ctx, 1)
	}
	if err != nil {
		m.refreshErrors.Add(ctx, 1)
	}
	m.refreshDuration.Record(ctx, float64(duration.Milliseconds()))
}

// RecordTransition records a session status transition.
func (m *metricsImpl) RecordTransition(ctx context.Context, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// NopMetrics returns a Metrics implementation that does nothing.
func NopMetrics() Metrics {
	return nopMetrics{}
}

type nopMetrics struct{}

func (nopMetrics) RecordRefresh(ctx context.Context, duration time.Duration, shared bool, err error) {
}
func (nopMetrics) RecordTransition(ctx context.Context, from, to string) {}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = nopMetrics{}
)
