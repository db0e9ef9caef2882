package usage

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps counters in process memory. Records never expire on their
// own; Sweep removes past days.
type MemoryStore struct {
	mu    sync.Mutex
	items *cache.Cache
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Count(_ context.Context, key Key) (int, error) {
	return s.count(key), nil
}

func (s *MemoryStore) count(key Key) int {
	v, ok := s.items.Get(key.String())
	if !ok {
		return 0
	}
	return v.(Record).Count
}

func (s *MemoryStore) IncrementIfBelow(_ context.Context, key Key, limit int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.count(key)
	if current >= limit {
		return current, false, nil
	}

	next := current + 1
	s.items.Set(key.String(), Record{ClientID: key.ClientID, Day: key.Day, Count: next}, cache.NoExpiration)
	return next, true, nil
}

func (s *MemoryStore) Sweep(_ context.Context, today string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, item := range s.items.Items() {
		if rec, ok := item.Object.(Record); ok && rec.Day != today {
			s.items.Delete(k)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}
