package store

import (
	"context"
	"sync"

	"github.com/avelar/linkshort/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Store.
type MemoryStore struct {
	mu       sync.RWMutex
	mappings map[shortener.Code]*shortener.Mapping
}

// NewMemoryStore creates a new in-memory mapping store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mappings: make(map[shortener.Code]*shortener.Mapping),
	}
}

func (m *MemoryStore) Insert(_ context.Context, mapping *shortener.Mapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.mappings[mapping.Code]
	if ok {
		if existing.LongURL == mapping.LongURL {
			return nil
		}

		return shortener.ErrCodeCollision
	}

	clone := *mapping
	m.mappings[mapping.Code] = &clone

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.Mapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mapping, ok := m.mappings[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	clone := *mapping

	return &clone, nil
}

// Len reports the number of stored mappings.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.mappings)
}

// MemoryCache is an in-memory implementation of shortener.Cache.
type MemoryCache struct {
	mu    sync.RWMutex
	urls  map[shortener.Code]string // code -> long URL
	codes map[string]shortener.Code // long URL -> code
}

// NewMemoryCache creates a new in-memory mapping cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		urls:  make(map[shortener.Code]string),
		codes: make(map[string]shortener.Code),
	}
}

func (c *MemoryCache) GetURL(_ context.Context, code shortener.Code) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	longURL, ok := c.urls[code]
	if !ok {
		return "", shortener.ErrNotFound
	}

	return longURL, nil
}

func (c *MemoryCache) GetCode(_ context.Context, longURL string) (shortener.Code, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	code, ok := c.codes[longURL]
	if !ok {
		return "", shortener.ErrNotFound
	}

	return code, nil
}

func (c *MemoryCache) Put(_ context.Context, m *shortener.Mapping) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.urls[m.Code] = m.LongURL
	c.codes[m.LongURL] = m.Code

	return nil
}

// Compile-time checks.
var (
	_ shortener.Store = (*MemoryStore)(nil)
	_ shortener.Cache = (*MemoryCache)(nil)
)
