// Package observe provides the observability side channel for proxies.
//
// The core packages stay silent by default: cache and security emit their
// hit/miss/eviction and audit notifications through the Logger and Metrics
// interfaces defined here, which default to no-ops. Observer wires the real
// implementations (structured JSON logging, OpenTelemetry metrics and
// tracing) when a host application wants them.
package observe
