package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memory is an unbounded in-process cache. Expired entries are hidden from
// Get immediately and removed on Sweep.
type Memory[V any] struct {
	mu     sync.Mutex
	items  map[string]entry[V]
	now    func() time.Time
	closed bool
}

func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{items: make(map[string]entry[V]), now: time.Now}
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	e, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.items, key)
		return zero, ErrNotFound
	}
	return e.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.items[key] = entry[V]{value: value, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory[V]) Sweep(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for k, e := range m.items {
		if !now.Before(e.expiresAt) {
			delete(m.items, k)
			n++
		}
	}
	return n, nil
}

func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Memory[V]) Close() error {
	m.mu.Lock()
	m.closed = true
	m.items = make(map[string]entry[V])
	m.mu.Unlock()
	return nil
}

var _ Cache[[]byte] = (*Memory[[]byte])(nil)
