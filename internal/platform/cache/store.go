package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/platform/resilience"
)

var errNilLoader = errors.New("cache loader is required")

type item[V any] struct {
	value     V
	expiresAt time.Time
}

func (it item[V]) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && !it.expiresAt.After(now)
}

// Store is an in-process TTL cache of V. A non-positive ttl keeps values
// until they are deleted. Concurrent misses on one key share a single load.
type Store[V any] struct {
	mu    sync.RWMutex
	items map[string]item[V]
	ttl   time.Duration
	loads resilience.SingleFlight[V]
	now   func() time.Time
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		items: make(map[string]item[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Len counts live and not yet evicted values.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if it.expired(s.now()) {
		s.mu.Lock()
		if cur, still := s.items[key]; still && cur.expiresAt.Equal(it.expiresAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return zero, false
	}
	return it.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	it := item[V]{value: value}
	if s.ttl > 0 {
		it.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
}

// DeletePrefix drops every key starting with prefix. An empty prefix
// clears the store.
func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prefix == "" {
		n := len(s.items)
		clear(s.items)
		return n
	}
	n := 0
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
			n++
		}
	}
	return n
}

// GetOrLoad returns the cached value or runs loader once for all callers
// waiting on key. Failed loads are not cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	if loader == nil {
		var zero V
		return zero, errNilLoader
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.loads.Do(key, func() (V, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return loaded, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return value, err
}
