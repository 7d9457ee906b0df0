package cache

import (
	"strings"
	"sync"

	"github.com/marketdeck/realtime/internal/router"
)

// Stats summarizes the store for status logging.
type Stats struct {
	Entries       int
	Stale         int
	Invalidations int
}

type entry struct {
	key   router.Key
	value any
	stale bool
}

// Store is a mutex-guarded cache registry. Zero-cost to share across any
// number of routers: Invalidate is idempotent and ordering between keys is
// irrelevant.
type Store struct {
	mu            sync.Mutex
	entries       map[string]*entry
	invalidations int
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Set stores a fresh value for key, replacing any stale entry.
func (s *Store) Set(key router.Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[joinKey(key)] = &entry{key: key, value: value}
}

// Get returns the value for key. ok is false when the entry is absent or
// has been invalidated since it was set.
func (s *Store) Get(key router.Key) (value any, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.entries[joinKey(key)]
	if !found || e.stale {
		return nil, false
	}
	return e.value, true
}

// Invalidate marks every entry whose key starts with the given prefix
// stale. Repeated calls for the same key are harmless.
func (s *Store) Invalidate(key router.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidations++
	for _, e := range s.entries {
		if hasPrefix(e.key, key) {
			e.stale = true
		}
	}
}

// Stats returns a snapshot of the store.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale := 0
	for _, e := range s.entries {
		if e.stale {
			stale++
		}
	}
	return Stats{
		Entries:       len(s.entries),
		Stale:         stale,
		Invalidations: s.invalidations,
	}
}

func joinKey(key router.Key) string {
	return strings.Join(key, "\x1f")
}

func hasPrefix(key, prefix router.Key) bool {
	if len(prefix) > len(key) {
		return false
	}
	for i, seg := range prefix {
		if key[i] != seg {
			return false
		}
	}
	return true
}
