package cache

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/proxykit/target"
)

// Proxy wraps a target and memoizes its successful operation results.
//
// On each Invoke it derives a cache key from the operation name and
// arguments, consults the store, and only forwards to the target on a miss.
// Errors are never cached. Attribute reads pass through unmodified.
//
// Proxy itself implements target.Invoker, so it composes transparently
// under other decorators (a security proxy can wrap a caching proxy without
// knowing it).
type Proxy struct {
	target target.Invoker
	store  *Store
	keyer  Keyer
	sink   Sink

	// group collapses concurrent misses for the same key so the target
	// computes each result at most once. The store keeps its own coarse
	// lock; this is call dedup, not per-key locking.
	group singleflight.Group
}

// NewProxy creates a caching proxy over t.
// A nil keyer means DefaultKeyer; a nil sink is valid and silent.
func NewProxy(t target.Invoker, store *Store, keyer Keyer, sink Sink) *Proxy {
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &Proxy{
		target: t,
		store:  store,
		keyer:  keyer,
		sink:   sink,
	}
}

// Invoke calls the named operation, serving repeated identical calls from
// the store while their entry is live.
func (p *Proxy) Invoke(ctx context.Context, name string, args target.Args) (any, error) {
	if !p.target.HasOperation(name) {
		return nil, &target.UnknownOperationError{Name: name}
	}

	key, err := p.keyer.Key(name, args)
	if err != nil {
		// Key derivation failed - forward without caching.
		return p.target.Invoke(ctx, name, args)
	}

	if value, ok := p.store.Get(key); ok {
		p.sink.notify(Event{Kind: EventHit, Key: key, Operation: name})
		return value, nil
	}
	p.sink.notify(Event{Kind: EventMiss, Key: key, Operation: name})

	value, err, _ := p.group.Do(key, func() (any, error) {
		// A concurrent caller may have populated the entry while this
		// call waited on the flight group.
		if cached, ok := p.store.Get(key); ok {
			return cached, nil
		}

		result, err := p.target.Invoke(ctx, name, args)
		if err != nil {
			// Failures are not cached.
			return nil, err
		}

		p.store.Put(key, result)
		return result, nil
	})
	return value, err
}

// Attribute forwards an attribute read to the target. Attribute values are
// never cached.
func (p *Proxy) Attribute(name string) (any, error) {
	return p.target.Attribute(name)
}

// HasOperation reports whether the target exposes the named operation.
func (p *Proxy) HasOperation(name string) bool {
	return p.target.HasOperation(name)
}

// HasAttribute reports whether the target exposes the named attribute.
func (p *Proxy) HasAttribute(name string) bool {
	return p.target.HasAttribute(name)
}

// OperationNames returns the target's operation names.
func (p *Proxy) OperationNames() []string {
	return p.target.OperationNames()
}

// CacheStats returns a snapshot of the underlying store.
func (p *Proxy) CacheStats() Stats {
	return p.store.Stats()
}

// Ensure Proxy implements target.Invoker
var _ target.Invoker = (*Proxy)(nil)
