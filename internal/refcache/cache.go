// Package refcache provides an in-memory TTL cache for reference lookup
// results, keyed by catalog, link kind and optional search term.
package refcache

import (
	"strings"
	"sync"
	"time"

	"github.com/moarster/yms-react-sub001/internal/obs"
)

// DefaultTTL bounds staleness of cached lookup lists.
const DefaultTTL = 5 * time.Minute

type entry[T any] struct {
	data      T
	timestamp time.Time
	expiresAt time.Time
}

// Store is an injectable TTL cache. Construct one per consumer instead of
// sharing module-level state; isolated instances keep tests independent.
type Store[T any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[T]
	defaultTTL time.Duration
	now        func() time.Time
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithClock overrides the time source. Test use.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Store. A non-positive ttl falls back to DefaultTTL.
func New[T any](ttl time.Duration, opts ...Option[T]) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store[T]{
		entries:    make(map[string]entry[T]),
		defaultTTL: ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key derives the cache slot for a (catalog, kind[, search]) triple. Searched
// and unsearched queries for the same catalog occupy different slots.
func Key(catalog, kind string, search ...string) string {
	key := kind + ":" + catalog
	if len(search) > 0 && strings.TrimSpace(search[0]) != "" {
		key += ":" + search[0]
	}
	return key
}

// Get returns the cached value for the key, performing lazy expiry: an entry
// past its deadline is deleted and reported as a miss.
func (s *Store[T]) Get(catalog, kind string, search ...string) (T, bool) {
	var zero T
	key := Key(catalog, kind, search...)

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		obs.CacheLookup("miss")
		return zero, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, still := s.entries[key]; still && s.now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		obs.CacheLookup("expired")
		return zero, false
	}
	obs.CacheLookup("hit")
	return e.data, true
}

// SetOption adjusts a single Set call.
type SetOption struct {
	Search string
	TTL    time.Duration
}

// Set stores data under the derived key with the store's default TTL, or a
// per-entry TTL when opt.TTL is positive.
func (s *Store[T]) Set(catalog, kind string, data T, opts ...SetOption) {
	var opt SetOption
	if len(opts) > 0 {
		opt = opts[0]
	}
	ttl := s.defaultTTL
	if opt.TTL > 0 {
		ttl = opt.TTL
	}
	var search []string
	if opt.Search != "" {
		search = []string{opt.Search}
	}
	key := Key(catalog, kind, search...)
	now := s.now()

	s.mu.Lock()
	s.entries[key] = entry[T]{data: data, timestamp: now, expiresAt: now.Add(ttl)}
	s.mu.Unlock()
}

// Invalidate removes cached slots for a catalog. With a kind it removes only
// keys with the exact "{kind}:{catalog}" prefix; without it removes any key
// containing ":{catalog}", covering both kinds and all search variants.
func (s *Store[T]) Invalidate(catalog string, kind ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(kind) > 0 && kind[0] != "" {
		prefix := kind[0] + ":" + catalog
		for key := range s.entries {
			if key == prefix || strings.HasPrefix(key, prefix+":") {
				delete(s.entries, key)
			}
		}
		return
	}
	needle := ":" + catalog
	for key := range s.entries {
		if strings.Contains(key, needle) {
			delete(s.entries, key)
		}
	}
}

// Clear drops every entry.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry[T])
	s.mu.Unlock()
}

// Len reports the number of live slots, counting expired entries that have
// not yet been lazily evicted.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
