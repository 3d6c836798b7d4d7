package cache

import (
	"context"
	"sync"
	"time"

	"github.com/builtnorth/schemagraph/errors"
)

// Store is the backing-store contract: namespaced string keys, TTL in
// seconds, exact get/set/delete and LIKE-style wildcard pattern delete over
// the key namespace. Implementations must be safe for use from a single
// request at a time; operations are atomic at the key level and no cross-key
// transactions exist.
type Store interface {
	// Get retrieves the raw value for a storage key. The boolean reports
	// whether the key exists and is unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a raw value under a storage key with the given TTL.
	// A non-positive TTL means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a storage key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Has reports whether a storage key exists and is unexpired.
	Has(ctx context.Context, key string) (bool, error)

	// Keys returns all storage keys currently held.
	Keys(ctx context.Context) ([]string, error)

	// DeletePattern removes every key matching the glob pattern
	// (* wildcard) and returns how many were removed.
	DeletePattern(ctx context.Context, pattern string) (int, error)

	// Flush removes every key.
	Flush(ctx context.Context) error
}

// memoryEntry is a stored value with its expiry.
type memoryEntry struct {
	data    []byte
	expires time.Time // zero means no expiry
}

func (e memoryEntry) expired() bool {
	return !e.expires.IsZero() && time.Now().After(e.expires)
}

// MemoryStore is an in-process Store implementation. It is the default
// backing store for tests, the CLI, and hosts without a shared store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryEntry)}
}

// Get retrieves the raw value for a storage key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, exists := s.items[key]
	s.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}
	if entry.expired() {
		s.mu.Lock()
		// Re-check under the write lock before removing
		if current, still := s.items[key]; still && current.expired() {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return entry.data, true, nil
}

// Set stores a raw value under a storage key.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "MemoryStore", "Set", "key validation")
	}

	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.items[key] = memoryEntry{data: value, expires: expires}
	s.mu.Unlock()
	return nil
}

// Delete removes a storage key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Has reports whether a storage key exists and is unexpired.
func (s *MemoryStore) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

// Keys returns all unexpired storage keys.
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.items))
	for key, entry := range s.items {
		if !entry.expired() {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// DeletePattern removes every key matching the glob pattern.
func (s *MemoryStore) DeletePattern(_ context.Context, pattern string) (int, error) {
	re, err := CompilePattern(pattern)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.items {
		if re.MatchString(key) {
			delete(s.items, key)
			removed++
		}
	}
	return removed, nil
}

// Flush removes every key.
func (s *MemoryStore) Flush(_ context.Context) error {
	s.mu.Lock()
	s.items = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}
