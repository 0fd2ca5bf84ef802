package cache

import (
	"context"

	"github.com/jonwraymond/proxykit/observe"
)

// EventKind classifies a cache lifecycle event.
type EventKind string

const (
	// EventHit is emitted when a lookup finds a live entry.
	EventHit EventKind = "hit"

	// EventMiss is emitted when a lookup finds nothing usable.
	EventMiss EventKind = "miss"

	// EventExpired is emitted when a lookup purges a stale entry.
	EventExpired EventKind = "expired"

	// EventEvicted is emitted when an insert displaces the LRU entry.
	EventEvicted EventKind = "evicted"
)

// Event describes one cache lifecycle notification.
type Event struct {
	Kind      EventKind
	Key       string
	Operation string // set for proxy-level events, empty for store-level ones
}

// Sink receives cache lifecycle events. A nil Sink is valid and silent.
//
// Sinks are an observability side channel, not part of the functional
// contract; they must be fast and must not panic.
type Sink func(Event)

func (s Sink) notify(e Event) {
	if s != nil {
		s(e)
	}
}

// MultiSink fans events out to several sinks.
func MultiSink(sinks ...Sink) Sink {
	return func(e Event) {
		for _, s := range sinks {
			s.notify(e)
		}
	}
}

// LoggerSink emits each event as a structured debug log line.
func LoggerSink(logger observe.Logger) Sink {
	return func(e Event) {
		logger.Debug(context.Background(), "cache "+string(e.Kind),
			observe.Field{Key: "cache.key", Value: e.Key},
			observe.Field{Key: "cache.operation", Value: e.Operation},
		)
	}
}

// MetricsSink records events on the cache lookup and eviction counters.
func MetricsSink(m observe.Metrics) Sink {
	return func(e Event) {
		ctx := context.Background()
		switch e.Kind {
		case EventHit:
			m.RecordLookup(ctx, e.Operation, true)
		case EventMiss:
			m.RecordLookup(ctx, e.Operation, false)
		case EventExpired, EventEvicted:
			m.RecordEviction(ctx, string(e.Kind))
		}
	}
}
