package cache

import (
	"sync"
)

// memo is the request-scoped first layer of the cache. It holds decoded
// values directly, so a Get after a Set within the same request returns
// the original value without a serialization round trip. It never expires
// entries on its own; Reset clears it between requests.
type memo struct {
	mu      sync.RWMutex
	entries map[string]any
}

func newMemo() *memo {
	return &memo{entries: make(map[string]any)}
}

func (m *memo) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, found := m.entries[key]
	return value, found
}

func (m *memo) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

func (m *memo) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *memo) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, found := m.entries[key]
	return found
}

// DeletePattern removes every entry whose key matches the glob pattern
// and returns the number removed.
func (m *memo) DeletePattern(pattern string) (int, error) {
	re, err := CompilePattern(pattern)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key := range m.entries {
		if re.MatchString(key) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (m *memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]any)
}

func (m *memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
