package observe

import (
	"context"
	"time"
)

// InvokeFunc is the signature of one proxied invocation.
type InvokeFunc func(ctx context.Context) (any, error)

// Middleware wraps invocations with tracing and logging.
//
// Contract:
//   - Concurrency: Instrument is safe for concurrent use.
//   - Errors: errors from the wrapped function are recorded and propagated
//     unchanged.
type Middleware struct {
	tracer Tracer
	logger Logger
}

// NewMiddleware creates a Middleware. Nil components default to no-ops.
func NewMiddleware(tracer Tracer, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewNopTracer()
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Middleware{tracer: tracer, logger: logger}
}

// Instrument runs fn inside a span and logs the outcome with its duration.
func (m *Middleware) Instrument(ctx context.Context, meta CallMeta, fn InvokeFunc) (any, error) {
	ctx, span := m.tracer.StartSpan(ctx, meta)

	start := time.Now()
	result, err := fn(ctx)
	duration := time.Since(start)

	m.tracer.EndSpan(span, err)

	fields := []Field{
		{Key: "proxy.operation", Value: meta.Operation},
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	}
	if meta.User != "" {
		fields = append(fields, Field{Key: "proxy.user", Value: meta.User})
	}

	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		m.logger.Error(ctx, "invocation failed", fields...)
	} else {
		m.logger.Info(ctx, "invocation completed", fields...)
	}

	return result, err
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) *Middleware {
	return NewMiddleware(NewTracer(obs.Tracer()), obs.Logger())
}
