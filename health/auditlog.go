package health

import (
	"context"
	"fmt"
)

// EntryCounter reports how many audit entries have been recorded.
// *security.Proxy satisfies it via AuditLen.
type EntryCounter interface {
	AuditLen() int
}

// AuditCheckerConfig configures the audit log health checker.
type AuditCheckerConfig struct {
	// WarnAt is the entry count that triggers degraded status. The audit
	// log is append-only and never trimmed, so unbounded growth is the
	// caller's signal to rotate the proxy instance. Default: 100000
	WarnAt int
}

// AuditChecker reports on audit log growth.
type AuditChecker struct {
	config  AuditCheckerConfig
	counter EntryCounter
}

// NewAuditChecker creates a health checker over an audit entry counter.
func NewAuditChecker(counter EntryCounter, config AuditCheckerConfig) *AuditChecker {
	if config.WarnAt <= 0 {
		config.WarnAt = 100000
	}
	return &AuditChecker{config: config, counter: counter}
}

// Name returns the name of this checker.
func (c *AuditChecker) Name() string {
	return "audit_log"
}

// Check reports the audit log size.
func (c *AuditChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled")
	default:
	}

	n := c.counter.AuditLen()
	details := map[string]any{
		"entries": n,
		"warn_at": c.config.WarnAt,
	}

	if n >= c.config.WarnAt {
		return Degraded(fmt.Sprintf("audit log holds %d entries", n)).WithDetails(details)
	}
	return Healthy("audit log within bounds").WithDetails(details)
}

// Ensure AuditChecker implements Checker
var _ Checker = (*AuditChecker)(nil)
