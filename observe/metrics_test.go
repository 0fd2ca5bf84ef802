package observe

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	return m, reader
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func sumValue(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %s is not an int64 sum: %T", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_RecordLookup(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordLookup(ctx, "get_users", false)
	m.RecordLookup(ctx, "get_users", true)
	m.RecordLookup(ctx, "get_users", true)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	lookups, ok := findMetric(rm, "proxy.cache.lookups")
	if !ok {
		t.Fatal("proxy.cache.lookups metric not found")
	}
	if got := sumValue(t, lookups); got != 3 {
		t.Errorf("lookup count = %d, want 3", got)
	}

	// Hit and miss land in separate data points via the result attribute.
	sum := lookups.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) != 2 {
		t.Errorf("expected 2 data points (hit and miss), got %d", len(sum.DataPoints))
	}
}

func TestMetrics_RecordEviction(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordEviction(ctx, "lru")
	m.RecordEviction(ctx, "expired")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	evictions, ok := findMetric(rm, "proxy.cache.evictions")
	if !ok {
		t.Fatal("proxy.cache.evictions metric not found")
	}
	if got := sumValue(t, evictions); got != 2 {
		t.Errorf("eviction count = %d, want 2", got)
	}
}

func TestMetrics_RecordAudit(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		m.RecordAudit(ctx, "METHOD_CALL")
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	audits, ok := findMetric(rm, "proxy.audit.actions")
	if !ok {
		t.Fatal("proxy.audit.actions metric not found")
	}
	if got := sumValue(t, audits); got != 5 {
		t.Errorf("audit action count = %d, want 5", got)
	}
}

func TestNopMetrics_Discards(t *testing.T) {
	m := NewNopMetrics()
	ctx := context.Background()

	m.RecordLookup(ctx, "get_users", true)
	m.RecordEviction(ctx, "lru")
	m.RecordAudit(ctx, "LOGOUT")
}
