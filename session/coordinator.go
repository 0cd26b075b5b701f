package session

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/casewise/sessionkit/observe"
)

// RefreshFunc performs one refresh cycle: call the identity service,
// persist the resulting tokens, and return the new access token. The
// Coordinator runs it at most once per cycle; persisting inside the
// function is what guarantees waiters released afterward observe the
// updated tokens.
type RefreshFunc func(ctx context.Context) (string, error)

// Coordinator collapses concurrent refresh demands into a single
// in-flight cycle and fans the one outcome out to every caller.
//
// Contract:
// - Concurrency: safe to call from arbitrarily many goroutines.
// - Exactly one RefreshFunc execution per cycle regardless of caller count.
// - A new cycle cannot begin until the previous one has settled and
//   released all its waiters.
// - An in-flight cycle is not cancellable: late callers wait for
//   settlement even if their own context expires first.
type Coordinator struct {
	group   singleflight.Group
	logger  observe.Logger
	metrics observe.Metrics
	tracer  trace.Tracer
}

// NewCoordinator creates a Coordinator. Logger, metrics, and tracer may be
// nil; they default to no-ops.
func NewCoordinator(logger observe.Logger, metrics observe.Metrics, tracer trace.Tracer) *Coordinator {
	if logger == nil {
		logger = observe.NopLogger()
	}
	if metrics == nil {
		metrics = observe.NopMetrics()
	}
	return &Coordinator{
		logger:  logger.WithComponent("coordinator"),
		metrics: metrics,
		tracer:  tracer,
	}
}

// Do runs fn under the single-flight guarantee and returns the access
// token the settled cycle produced. All callers of one cycle receive the
// same result.
func (c *Coordinator) Do(ctx context.Context, fn RefreshFunc) (string, error) {
	start := time.Now()

	v, err, shared := c.group.Do("refresh", func() (any, error) {
		// The cycle must settle even if the caller that started it
		// gives up: waiters joined after it are stuck otherwise.
		flightCtx := context.WithoutCancel(ctx)

		if c.tracer != nil {
			var span trace.Span
			flightCtx, span = c.tracer.Start(flightCtx, "session.refresh")
			defer span.End()

			token, err := fn(flightCtx)
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
				span.RecordError(err)
			}
			return token, err
		}

		return fn(flightCtx)
	})

	c.metrics.RecordRefresh(ctx, time.Since(start), shared, err)
	if err != nil {
		c.logger.Warn(ctx, "refresh cycle failed",
			observe.Field{Key: "shared", Value: shared},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return "", err
	}

	c.logger.Debug(ctx, "refresh cycle settled",
		observe.Field{Key: "shared", Value: shared},
	)
	return v.(string), nil
}
