package facts

import (
	"context"
	"sync"
	"time"

	"codee/pkg/platform/sentinel"
)

// InMemoryStore keeps facts in process memory with a sliding TTL. It backs
// single-instance deployments and tests; distributed deployments use the
// Redis store.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	facts     Facts
	expiresAt time.Time
}

type InMemoryStoreOption func(*InMemoryStore)

// WithClock replaces the store clock, for expiry tests.
func WithClock(now func() time.Time) InMemoryStoreOption {
	return func(s *InMemoryStore) { s.now = now }
}

func NewInMemoryStore(ttl time.Duration, opts ...InMemoryStoreOption) *InMemoryStore {
	s := &InMemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *InMemoryStore) Get(_ context.Context, conversationID string) (*Facts, error) {
	s.mu.RLock()
	entry, ok := s.entries[conversationID]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expiresAt) {
		return nil, sentinel.ErrNotFound
	}

	// Reads slide the expiry, matching the Redis store's EXPIRE on access.
	s.mu.Lock()
	entry.expiresAt = s.now().Add(s.ttl)
	s.entries[conversationID] = entry
	s.mu.Unlock()

	f := entry.facts
	return &f, nil
}

func (s *InMemoryStore) Save(_ context.Context, conversationID string, f *Facts) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[conversationID] = memoryEntry{facts: *f, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, conversationID)
	return nil
}

// Purge drops expired entries. The server runs it on a ticker so abandoned
// conversations do not accumulate.
func (s *InMemoryStore) Purge() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
