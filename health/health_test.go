package health

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jonwraymond/proxykit/cache"
)

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusHealthy:   "healthy",
		StatusDegraded:  "degraded",
		StatusUnhealthy: "unhealthy",
		Status(99):      "unknown",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}

func TestStoreChecker_WithinCapacity(t *testing.T) {
	store := cache.NewStore(cache.Config{MaxSize: 10, TTL: time.Minute}, nil)
	store.Put("a", 1)
	store.Put("b", 2)

	checker := NewStoreChecker(store, StoreCheckerConfig{})
	result := checker.Check(context.Background())

	if result.Status != StatusHealthy {
		t.Errorf("status = %v, want healthy at 20%% occupancy", result.Status)
	}
	if result.Details["size"] != 2 || result.Details["max_size"] != 10 {
		t.Errorf("details = %v, want size 2 of 10", result.Details)
	}
}

func TestStoreChecker_Degraded(t *testing.T) {
	store := cache.NewStore(cache.Config{MaxSize: 4, TTL: time.Minute}, nil)
	for i := 0; i < 4; i++ {
		store.Put(fmt.Sprintf("k%d", i), i)
	}

	checker := NewStoreChecker(store, StoreCheckerConfig{DegradedAt: 0.9})
	result := checker.Check(context.Background())

	if result.Status != StatusDegraded {
		t.Errorf("status = %v, want degraded at full occupancy", result.Status)
	}
}

func TestStoreChecker_DisabledStore(t *testing.T) {
	store := cache.NewStore(cache.Config{MaxSize: 0, TTL: time.Minute}, nil)

	checker := NewStoreChecker(store, StoreCheckerConfig{})
	result := checker.Check(context.Background())

	if result.Status != StatusHealthy {
		t.Errorf("status = %v, a disabled store is healthy by definition", result.Status)
	}
}

func TestStoreChecker_CancelledContext(t *testing.T) {
	store := cache.NewStore(cache.Config{MaxSize: 10, TTL: time.Minute}, nil)
	checker := NewStoreChecker(store, StoreCheckerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if result := checker.Check(ctx); result.Status != StatusUnhealthy {
		t.Errorf("status = %v, want unhealthy on cancelled context", result.Status)
	}
}

type fixedCounter int

func (c fixedCounter) AuditLen() int { return int(c) }

func TestAuditChecker(t *testing.T) {
	tests := []struct {
		name    string
		entries int
		warnAt  int
		want    Status
	}{
		{"within bounds", 10, 100, StatusHealthy},
		{"at threshold", 100, 100, StatusDegraded},
		{"over threshold", 250, 100, StatusDegraded},
		{"default threshold", 99999, 0, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewAuditChecker(fixedCounter(tt.entries), AuditCheckerConfig{WarnAt: tt.warnAt})
			result := checker.Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("status = %v, want %v", result.Status, tt.want)
			}
		})
	}
}

func TestAggregator_CheckByName(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register(NewCheckerFunc("always_ok", func(context.Context) Result {
		return Healthy("fine")
	}))

	result, err := agg.Check(context.Background(), "always_ok")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Status != StatusHealthy || result.Message != "fine" {
		t.Errorf("result = %+v, want healthy/fine", result)
	}

	_, err = agg.Check(context.Background(), "missing")
	if !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("unknown checker should match ErrCheckerNotFound, got: %v", err)
	}
}

func TestAggregator_RegistrationOrder(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	for _, name := range []string{"c", "a", "b"} {
		n := name
		agg.Register(NewCheckerFunc(n, func(context.Context) Result {
			return Healthy("")
		}))
	}

	// Re-registering keeps the original position.
	agg.Register(NewCheckerFunc("a", func(context.Context) Result {
		return Degraded("replaced")
	}))

	if got, want := agg.CheckerNames(), []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("CheckerNames = %v, want %v", got, want)
	}

	result, err := agg.Check(context.Background(), "a")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Message != "replaced" {
		t.Error("re-registering a name should replace the checker")
	}
}

func TestAggregator_OverallIsWorstOf(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register(NewCheckerFunc("ok", func(context.Context) Result {
		return Healthy("")
	}))
	agg.Register(NewCheckerFunc("warming", func(context.Context) Result {
		return Degraded("")
	}))

	if got := agg.Overall(context.Background()); got != StatusDegraded {
		t.Errorf("Overall = %v, want degraded", got)
	}

	agg.Register(NewCheckerFunc("down", func(context.Context) Result {
		return Unhealthy("")
	}))
	if got := agg.Overall(context.Background()); got != StatusUnhealthy {
		t.Errorf("Overall = %v, want unhealthy", got)
	}
}

func TestAggregator_EmptyIsHealthy(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	if got := agg.Overall(context.Background()); got != StatusHealthy {
		t.Errorf("Overall with no checkers = %v, want healthy", got)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: time.Second})
	store := cache.NewStore(cache.Config{MaxSize: 10, TTL: time.Minute}, nil)
	agg.Register(NewStoreChecker(store, StoreCheckerConfig{}))
	agg.Register(NewAuditChecker(fixedCounter(3), AuditCheckerConfig{}))

	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, name := range []string{"cache_store", "audit_log"} {
		result, ok := results[name]
		if !ok {
			t.Errorf("missing result for %q", name)
			continue
		}
		if result.Status != StatusHealthy {
			t.Errorf("%s status = %v, want healthy", name, result.Status)
		}
	}
}
