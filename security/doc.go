// Package security provides a permission-gated, audit-logging proxy over
// any target.
//
// A Proxy holds a single logical session (logged out, or logged in as one
// identity), checks each operation against the identity's capability set,
// and records every security-relevant action in an append-only audit log.
// It wraps any target.Invoker, so caching composes transparently behind it.
package security
