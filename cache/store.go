package cache

import (
	"container/list"
	"sync"
	"time"
)

// Default bounds applied by NewStore.
const (
	DefaultMaxSize = 100
	DefaultTTL     = 300 * time.Second
)

// Config controls store capacity and entry lifetime.
//
// MaxSize semantics:
//   - MaxSize < 0 means "use DefaultMaxSize"
//   - MaxSize == 0 is the degenerate always-miss store: Put stores nothing
//     and every Get misses
//
// TTL <= 0 means "use DefaultTTL".
type Config struct {
	MaxSize int
	TTL     time.Duration
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{MaxSize: DefaultMaxSize, TTL: DefaultTTL}
}

// Stats is a read-only snapshot of store state.
type Stats struct {
	Size    int
	MaxSize int
	TTL     time.Duration
	Keys    []string // least- to most-recently used
}

// Store is a concurrency-safe bounded map with TTL expiry and LRU eviction.
//
// A map gives O(1) key lookup and a doubly-linked list maintains recency
// ordering (front = LRU, back = MRU). One mutex guards the pair as a single
// critical section, so every check-then-act sequence inside Get and Put is
// atomic. The lock is deliberately coarse: at the scale of a caching
// decorator, serializing all access is correct and simple; per-key striping
// is not worth the bookkeeping.
//
// Expiry is lazy: stale entries are purged when a read finds them, never by
// a background sweep. A hit refreshes recency but not the write timestamp,
// so a hot key still expires on schedule.
type Store struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]*list.Element
	recency *list.List
	sink    Sink

	now func() time.Time // injectable for deterministic tests
}

// storeEntry is the value held in recency-list elements. The key lives here
// because eviction starts from list nodes.
type storeEntry struct {
	key      string
	value    any
	storedAt time.Time
}

// NewStore creates a store with the given configuration. A nil sink is
// valid and silent.
func NewStore(cfg Config, sink Sink) *Store {
	if cfg.MaxSize < 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Store{
		maxSize: cfg.MaxSize,
		ttl:     cfg.TTL,
		entries: make(map[string]*list.Element),
		recency: list.New(),
		sink:    sink,
		now:     time.Now,
	}
}

// Get retrieves a live value. It returns (nil, false) if the key is absent
// or its entry has outlived the TTL; expired entries are removed as a side
// effect of the read. A hit moves the key to the MRU position.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	e := el.Value.(*storeEntry)
	if s.now().Sub(e.storedAt) >= s.ttl {
		s.removeLocked(el)
		s.sink.notify(Event{Kind: EventExpired, Key: key})
		return nil, false
	}

	// Recency refreshes on read; storedAt stays anchored to the write.
	s.recency.MoveToBack(el)
	return e.value, true
}

// Put stores a value under key. Inserting a new key at capacity first
// evicts the least-recently-used entry. The entry's timestamp is set to now
// and the key moves to the MRU position.
func (s *Store) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSize == 0 {
		return
	}

	if el, ok := s.entries[key]; ok {
		e := el.Value.(*storeEntry)
		e.value = value
		e.storedAt = s.now()
		s.recency.MoveToBack(el)
		return
	}

	if len(s.entries) >= s.maxSize {
		lru := s.recency.Front()
		if lru != nil {
			evicted := lru.Value.(*storeEntry).key
			s.removeLocked(lru)
			s.sink.notify(Event{Kind: EventEvicted, Key: evicted})
		}
	}

	el := s.recency.PushBack(&storeEntry{key: key, value: value, storedAt: s.now()})
	s.entries[key] = el
}

// Delete removes a key if present. Idempotent.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[key]; ok {
		s.removeLocked(el)
	}
}

// Len returns the number of stored entries, including any that have expired
// but not yet been purged by a read.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stats returns a snapshot of store state. Keys are ordered least- to
// most-recently used.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, s.recency.Len())
	for el := s.recency.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*storeEntry).key)
	}
	return Stats{
		Size:    len(s.entries),
		MaxSize: s.maxSize,
		TTL:     s.ttl,
		Keys:    keys,
	}
}

func (s *Store) removeLocked(el *list.Element) {
	delete(s.entries, el.Value.(*storeEntry).key)
	s.recency.Remove(el)
}
