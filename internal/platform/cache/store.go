// Package cache is an in-process TTL cache with single-flight loading.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var errNilLoader = errors.New("cache: loader is required")

type entry[V any] struct {
	value V
	// zero means no expiry
	deadline time.Time
}

// Store keeps values of one type keyed by string. A zero ttl keeps entries
// until they are deleted. Empty keys are never stored.
type Store[V any] struct {
	ttl    time.Duration
	now    func() time.Time
	flight singleflight.Group

	mu    sync.RWMutex
	items map[string]entry[V]
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{ttl: ttl, now: time.Now, items: map[string]entry[V]{}}
}

func (s *Store[V]) fresh(e entry[V]) bool {
	return e.deadline.IsZero() || s.now().Before(e.deadline)
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if ok && s.fresh(e) {
		return e.value, true
	}
	if ok {
		s.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the key.
		if cur, still := s.items[key]; still && !s.fresh(cur) {
			delete(s.items, key)
		}
		s.mu.Unlock()
	}
	var zero V
	return zero, false
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}
	e := entry[V]{value: value}
	if s.ttl > 0 {
		e.deadline = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.items[key] = e
	s.mu.Unlock()
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// DeletePrefix drops every key starting with prefix and returns how many
// were removed. An empty prefix removes nothing.
func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) int {
	if prefix == "" {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
			n++
		}
	}
	return n
}

// GetOrLoad returns the cached value or runs loader once per key across
// concurrent callers. Errors are not cached; an empty key always loads.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, errNilLoader
	}
	if key == "" {
		return loader(ctx)
	}
	if v, ok := s.Get(ctx, key); ok {
		return v, nil
	}

	res, err, _ := s.flight.Do(key, func() (any, error) {
		if v, ok := s.Get(ctx, key); ok {
			return v, nil
		}
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, v)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return res.(V), nil
}
