package cache

import (
	"strings"
	"testing"

	"github.com/jonwraymond/proxykit/target"
)

func TestKeyer_DeterministicForNamedArgs(t *testing.T) {
	keyer := NewDefaultKeyer()

	// Same content, different insertion order
	args1 := target.Args{Named: map[string]any{"b": 2, "a": 1, "c": 3}}
	args2 := target.Args{Named: map[string]any{"a": 1, "c": 3, "b": 2}}
	args3 := target.Args{Named: map[string]any{"c": 3, "b": 2, "a": 1}}

	key1, err := keyer.Key("get_users", args1)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	key2, err := keyer.Key("get_users", args2)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	key3, err := keyer.Key("get_users", args3)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	if key1 != key2 || key2 != key3 {
		t.Errorf("keys should be equal for same named arguments:\n  key1=%s\n  key2=%s\n  key3=%s", key1, key2, key3)
	}
}

func TestKeyer_PositionalOrderSignificant(t *testing.T) {
	keyer := NewDefaultKeyer()

	key1, err := keyer.Key("lookup", target.Positional(1, 2, 3))
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	key2, err := keyer.Key("lookup", target.Positional(3, 2, 1))
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	if key1 == key2 {
		t.Errorf("keys should differ for different positional order:\n  key1=%s\n  key2=%s", key1, key2)
	}
}

func TestKeyer_DistinctOperationsDistinctKeys(t *testing.T) {
	keyer := NewDefaultKeyer()

	key1, err := keyer.Key("get_users", target.NoArgs())
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	key2, err := keyer.Key("get_products", target.NoArgs())
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	if key1 == key2 {
		t.Error("different operations should produce different keys")
	}
}

func TestKeyer_KeyFormat(t *testing.T) {
	keyer := NewDefaultKeyer()

	key, err := keyer.Key("get_users", target.NoArgs())
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	if !strings.HasPrefix(key, "cache:get_users:") {
		t.Errorf("key %q should have prefix cache:get_users:", key)
	}
	hash := strings.TrimPrefix(key, "cache:get_users:")
	if len(hash) != 16 {
		t.Errorf("hash part %q should be 16 hex chars", hash)
	}
}

func TestKeyer_NonEncodableValueFallsBack(t *testing.T) {
	keyer := NewDefaultKeyer()

	// Channels are not JSON-encodable; the keyer must fall back to the
	// string conversion instead of failing.
	ch := make(chan int)
	key1, err := keyer.Key("watch", target.Positional(ch))
	if err != nil {
		t.Fatalf("Key() with non-encodable value should not fail, got: %v", err)
	}
	if key1 == "" {
		t.Error("Key() should produce a non-empty key")
	}
}

func TestKeyer_NestedArgumentsDeterministic(t *testing.T) {
	keyer := NewDefaultKeyer()

	args1 := target.Args{
		Positional: []any{[]any{1, 2}},
		Named:      map[string]any{"filter": map[string]any{"z": true, "a": false}},
	}
	args2 := target.Args{
		Positional: []any{[]any{1, 2}},
		Named:      map[string]any{"filter": map[string]any{"a": false, "z": true}},
	}

	key1, err := keyer.Key("query", args1)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	key2, err := keyer.Key("query", args2)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	if key1 != key2 {
		t.Errorf("nested named maps should canonicalize identically:\n  key1=%s\n  key2=%s", key1, key2)
	}
}
