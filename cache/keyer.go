package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonwraymond/proxykit/target"
)

// Keyer derives deterministic cache keys from operation calls.
//
// Contract:
// - Determinism: the same operation and arguments must produce the same key,
//   regardless of named-argument map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key for one call.
	Key(operation string, args target.Args) (string, error)
}

// DefaultKeyer generates SHA-256 based cache keys.
//
// Argument values that cannot be JSON-encoded are keyed by their string
// conversion instead, so any value is encodable. Object identity is never a
// cache dimension.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: cache:<operation>:<hash>
// where hash is the first 16 hex characters of SHA-256 over the canonical
// JSON encoding of {"args": positional, "kwargs": sorted named, "op": name}.
func (k *DefaultKeyer) Key(operation string, args target.Args) (string, error) {
	canonical := []byte(`{"args":`)

	positional, err := canonicalizeSlice(args.Positional)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize arguments: %w", err)
	}
	canonical = append(canonical, positional...)

	canonical = append(canonical, []byte(`,"kwargs":`)...)
	named, err := canonicalizeMap(args.Named)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize arguments: %w", err)
	}
	canonical = append(canonical, named...)

	canonical = append(canonical, []byte(`,"op":`)...)
	opBytes, err := json.Marshal(operation)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize operation: %w", err)
	}
	canonical = append(canonical, opBytes...)
	canonical = append(canonical, '}')

	hash := sha256.Sum256(canonical)
	hashStr := hex.EncodeToString(hash[:8]) // First 8 bytes = 16 hex chars

	return fmt.Sprintf("cache:%s:%s", operation, hashStr), nil
}

// canonicalize produces a deterministic JSON representation of a value.
// Maps are sorted by key; values JSON cannot represent fall back to their
// string conversion.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			// Not JSON-encodable (channels, funcs, cyclic values):
			// key by textual representation instead.
			return json.Marshal(fmt.Sprintf("%v", v))
		}
		return b, nil
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	// Sort keys so map iteration order never affects cache identity.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
