package adapter

import (
	"context"
	"quiz-master/internal/domain"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCacheAdapter is the in-process domain.Cache used when no Redis address is configured.
// Expired entries are dropped lazily on read.
type MemoryCacheAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCacheAdapter() *MemoryCacheAdapter {
	return NewMemoryCacheAdapterWithClock(time.Now)
}

// NewMemoryCacheAdapterWithClock lets tests control expiry.
func NewMemoryCacheAdapterWithClock(now func() time.Time) *MemoryCacheAdapter {
	return &MemoryCacheAdapter{entries: make(map[string]memoryEntry), now: now}
}

func (m *MemoryCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", domain.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", domain.ErrCacheMiss
	}
	return e.value, nil
}

func (m *MemoryCacheAdapter) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	e := memoryEntry{value: value}
	if expiration > 0 {
		e.expiresAt = m.now().Add(expiration)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryCacheAdapter) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCacheAdapter) Ping(ctx context.Context) error {
	return nil
}

var _ domain.Cache = (*MemoryCacheAdapter)(nil)
