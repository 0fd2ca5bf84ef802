package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records proxy activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic; recording is best-effort.
type Metrics interface {
	// RecordLookup records one cache lookup and its outcome.
	RecordLookup(ctx context.Context, operation string, hit bool)

	// RecordEviction records one entry removal (reason: "lru" eviction or
	// "expired" purge).
	RecordEviction(ctx context.Context, reason string)

	// RecordAudit records one audit action.
	RecordAudit(ctx context.Context, action string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	lookups   metric.Int64Counter
	evictions metric.Int64Counter
	audits    metric.Int64Counter
}

// NewMetrics creates a Metrics instance recording on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	lookups, err := meter.Int64Counter(
		"proxy.cache.lookups",
		metric.WithDescription("Total number of cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter(
		"proxy.cache.evictions",
		metric.WithDescription("Total number of cache entries removed by eviction or expiry"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	audits, err := meter.Int64Counter(
		"proxy.audit.actions",
		metric.WithDescription("Total number of recorded audit actions"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		lookups:   lookups,
		evictions: evictions,
		audits:    audits,
	}, nil
}

// RecordLookup increments the lookup counter with the outcome attribute.
func (m *metricsImpl) RecordLookup(ctx context.Context, operation string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.operation", operation),
		attribute.String("cache.result", result),
	))
}

// RecordEviction increments the eviction counter with the reason attribute.
func (m *metricsImpl) RecordEviction(ctx context.Context, reason string) {
	m.evictions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.reason", reason),
	))
}

// RecordAudit increments the audit action counter.
func (m *metricsImpl) RecordAudit(ctx context.Context, action string) {
	m.audits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("audit.action", action),
	))
}

// nopMetrics records nothing.
type nopMetrics struct{}

// NewNopMetrics returns a Metrics that records nothing.
func NewNopMetrics() Metrics {
	return nopMetrics{}
}

func (nopMetrics) RecordLookup(context.Context, string, bool) {}
func (nopMetrics) RecordEviction(context.Context, string)     {}
func (nopMetrics) RecordAudit(context.Context, string)        {}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = nopMetrics{}
)
