package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dejobratic/ordenes/internal/orders/ports"
)

type entry struct {
	response ports.StoredResponse
	storedAt time.Time
}

// Store retains idempotency responses for replaying duplicate requests.
// Entries older than ttl are ignored; a zero ttl keeps them forever.
type Store struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

// NewStore creates a new in-memory idempotency store.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		items: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the stored response for a given key if present and not expired.
func (s *Store) Get(_ context.Context, key string) (*ports.StoredResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	if !ok || s.expired(value) {
		return nil, nil
	}
	response := value.response
	return &response, nil
}

// Save stores the response for a key unless a live entry already exists.
// Expired entries are dropped on the way.
func (s *Store) Save(_ context.Context, key string, response ports.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	if existing, ok := s.items[key]; ok && !s.expired(existing) {
		return nil
	}
	s.items[key] = entry{response: response, storedAt: s.now()}
	return nil
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && s.now().Sub(e.storedAt) > s.ttl
}

func (s *Store) sweep() {
	if s.ttl <= 0 {
		return
	}
	for key, e := range s.items {
		if s.expired(e) {
			delete(s.items, key)
		}
	}
}
