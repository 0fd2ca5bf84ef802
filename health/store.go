package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/proxykit/cache"
)

// StoreCheckerConfig configures the cache store health checker.
type StoreCheckerConfig struct {
	// DegradedAt is the occupancy ratio (size/maxSize) that triggers
	// degraded status. Value should be between 0 and 1. Default: 0.9
	DegradedAt float64
}

// StoreChecker reports on cache store occupancy. A nearly full store is not
// broken, but sustained occupancy at capacity means every insert evicts and
// the hit rate is about to suffer.
type StoreChecker struct {
	config StoreCheckerConfig
	store  *cache.Store
}

// NewStoreChecker creates a health checker over the given store.
func NewStoreChecker(store *cache.Store, config StoreCheckerConfig) *StoreChecker {
	if config.DegradedAt <= 0 || config.DegradedAt > 1 {
		config.DegradedAt = 0.9
	}
	return &StoreChecker{config: config, store: store}
}

// Name returns the name of this checker.
func (c *StoreChecker) Name() string {
	return "cache_store"
}

// Check reports the store's occupancy.
func (c *StoreChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled")
	default:
	}

	stats := c.store.Stats()
	details := map[string]any{
		"size":     stats.Size,
		"max_size": stats.MaxSize,
		"ttl":      stats.TTL.String(),
	}

	if stats.MaxSize == 0 {
		// Always-miss configuration: nothing is ever stored.
		return Healthy("store disabled (max size 0)").WithDetails(details)
	}

	occupancy := float64(stats.Size) / float64(stats.MaxSize)
	details["occupancy"] = occupancy

	if occupancy >= c.config.DegradedAt {
		return Degraded(fmt.Sprintf("store at %.0f%% of capacity", occupancy*100)).WithDetails(details)
	}
	return Healthy("store within capacity").WithDetails(details)
}

// Ensure StoreChecker implements Checker
var _ Checker = (*StoreChecker)(nil)
