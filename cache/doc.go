// Package cache provides memoization for target operations.
//
// It provides a bounded Store with TTL expiry and LRU eviction, SHA-256-based
// key derivation from call arguments, and a Proxy that transparently caches
// successful operation results of any target.Invoker.
package cache
