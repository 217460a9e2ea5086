// Package cache memoizes engine results for repeated CLI runs. Every engine
// call is a pure function of its inputs, so a result keyed by a hash of those
// inputs never goes stale.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
)

// Cache stores opaque values by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Logger receives cache failures, which never fail the computation itself.
type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// Key hashes the JSON encoding of the inputs under a namespace, e.g.
// Key("project", config).
func Key(namespace string, inputs ...any) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, in := range inputs {
		if err := enc.Encode(in); err != nil {
			return "", fmt.Errorf("failed to hash cache key: %w", err)
		}
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil)), nil
}

// GetOrCompute returns the cached value for key, or runs compute and stores
// its result. hit reports whether the value came from the cache. Errors from
// compute are returned and never cached; cache read/write failures are logged
// and otherwise ignored.
func GetOrCompute[T any](ctx context.Context, c Cache, key string, log Logger, compute func() (T, error)) (value T, hit bool, err error) {
	if c == nil {
		value, err = compute()
		return value, false, err
	}
	if log == nil {
		log = nopLogger{}
	}

	data, ok, err := c.Get(ctx, key)
	switch {
	case err != nil:
		log.Warnf("cache read %s failed: %v", key, err)
	case ok:
		if err := json.Unmarshal(data, &value); err == nil {
			return value, true, nil
		}
		log.Warnf("cache entry %s is corrupt, recomputing", key)
	}

	value, err = compute()
	if err != nil {
		return value, false, err
	}
	data, err = json.Marshal(value)
	if err != nil {
		log.Warnf("cache encode %s failed: %v", key, err)
		return value, false, nil
	}
	if err := c.Set(ctx, key, data); err != nil {
		log.Warnf("cache write %s failed: %v", key, err)
	}
	return value, false, nil
}

// MemoryCache is an in-process Cache, safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
