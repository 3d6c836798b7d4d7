package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/builtnorth/schemagraph/hook"
)

// entryMeta records bookkeeping for a cached entry. The registry lets the
// cache report what it holds without listing keys from the backing store.
type entryMeta struct {
	Created time.Time
	TTL     time.Duration
	Expires time.Time
}

// Layered is the cache front used during generation. Reads consult the
// request-scoped memo first and fall back to the backing store; writes go
// to both. Store failures are logged and treated as misses so generation
// always proceeds.
type Layered struct {
	store    Store
	memo     *memo
	keyspace *Keyspace

	mu       sync.Mutex
	metadata map[string]entryMeta

	dispatcher hook.Dispatcher
	defaultTTL time.Duration
	logger     *slog.Logger

	stats   *Statistics
	metrics *cacheMetrics
}

// NewLayered creates a layered cache over the given backing store.
func NewLayered(store Store, options ...Option) (*Layered, error) {
	if store == nil {
		return nil, fmt.Errorf("cache.NewLayered: store is required")
	}

	opts := applyOptions(options...)

	keyspace, err := NewKeyspace(opts.namespace)
	if err != nil {
		return nil, fmt.Errorf("cache.NewLayered: %w", err)
	}

	l := &Layered{
		store:      store,
		memo:       newMemo(),
		keyspace:   keyspace,
		metadata:   make(map[string]entryMeta),
		dispatcher: opts.dispatcher,
		defaultTTL: opts.defaultTTL,
		logger:     opts.logger,
		stats:      NewStatistics(),
	}

	if opts.metricsReg != nil {
		metrics, err := newCacheMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, fmt.Errorf("cache.NewLayered: metrics registration failed: %w", err)
		}
		l.metrics = metrics
	}

	return l, nil
}

// Get looks up a value by key. The memo layer is checked first; a store
// hit populates the memo so subsequent reads within the request avoid the
// store. Store errors are logged and reported as misses.
func (l *Layered) Get(ctx context.Context, key string) (any, bool) {
	if value, found := l.memo.Get(key); found {
		l.recordHit()
		return value, true
	}

	data, found, err := l.store.Get(ctx, l.keyspace.Namespaced(key))
	if err != nil {
		l.logger.Warn("cache store get failed, treating as miss",
			"key", key, "error", err)
		l.recordMiss()
		return nil, false
	}
	if !found {
		l.recordMiss()
		return nil, false
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		l.logger.Warn("cache entry decode failed, treating as miss",
			"key", key, "error", err)
		l.recordMiss()
		return nil, false
	}

	l.memo.Set(key, value)
	l.updateMemoSize()
	l.recordHit()
	return value, true
}

// Set stores a value in both layers. A zero ttl falls back to the default.
// Returns false when the backing store write fails; the memo is populated
// either way so the current request still sees the value.
func (l *Layered) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = l.defaultTTL
	}

	l.memo.Set(key, value)
	l.updateMemoSize()
	l.recordSet()

	data, err := json.Marshal(value)
	if err != nil {
		l.logger.Warn("cache entry encode failed, store write skipped",
			"key", key, "error", err)
		return false
	}

	if err := l.store.Set(ctx, l.keyspace.Namespaced(key), data, ttl); err != nil {
		l.logger.Warn("cache store set failed",
			"key", key, "error", err)
		return false
	}

	now := time.Now()
	l.mu.Lock()
	l.purgeExpiredMetadataLocked(now)
	l.metadata[key] = entryMeta{Created: now, TTL: ttl, Expires: now.Add(ttl)}
	l.mu.Unlock()

	return true
}

// Delete removes a key from both layers.
func (l *Layered) Delete(ctx context.Context, key string) bool {
	l.memo.Delete(key)
	l.updateMemoSize()
	l.recordDelete()

	l.mu.Lock()
	delete(l.metadata, key)
	l.mu.Unlock()

	if err := l.store.Delete(ctx, l.keyspace.Namespaced(key)); err != nil {
		l.logger.Warn("cache store delete failed",
			"key", key, "error", err)
		return false
	}
	return true
}

// Has reports whether a key is present in either layer.
func (l *Layered) Has(ctx context.Context, key string) bool {
	if l.memo.Has(key) {
		return true
	}
	found, err := l.store.Has(ctx, l.keyspace.Namespaced(key))
	if err != nil {
		l.logger.Warn("cache store has failed, treating as absent",
			"key", key, "error", err)
		return false
	}
	return found
}

// GetMultiple looks up several keys. Missing keys are absent from the
// result map.
func (l *Layered) GetMultiple(ctx context.Context, keys []string) map[string]any {
	result := make(map[string]any, len(keys))
	for _, key := range keys {
		if value, found := l.Get(ctx, key); found {
			result[key] = value
		}
	}
	return result
}

// SetMultiple stores several values with a shared ttl. Returns true only
// when every write succeeded; a failed write does not stop the rest.
func (l *Layered) SetMultiple(ctx context.Context, values map[string]any, ttl time.Duration) bool {
	ok := true
	for key, value := range values {
		if !l.Set(ctx, key, value, ttl) {
			ok = false
		}
	}
	return ok
}

// DeleteMultiple removes several keys. Returns true only when every
// delete succeeded; a failed delete does not stop the rest.
func (l *Layered) DeleteMultiple(ctx context.Context, keys []string) bool {
	ok := true
	for _, key := range keys {
		if !l.Delete(ctx, key) {
			ok = false
		}
	}
	return ok
}

// DeleteByPattern removes every entry matching the glob pattern from both
// layers and returns the number removed from the backing store.
func (l *Layered) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	memoRemoved, err := l.memo.DeletePattern(pattern)
	if err != nil {
		return 0, fmt.Errorf("cache.DeleteByPattern: invalid pattern %q: %w", pattern, err)
	}
	l.updateMemoSize()

	re, err := CompilePattern(pattern)
	if err != nil {
		return 0, fmt.Errorf("cache.DeleteByPattern: invalid pattern %q: %w", pattern, err)
	}
	l.mu.Lock()
	for key := range l.metadata {
		if re.MatchString(key) {
			delete(l.metadata, key)
		}
	}
	l.mu.Unlock()

	removed, err := l.store.DeletePattern(ctx, l.keyspace.NamespacedPattern(pattern))
	if err != nil {
		l.logger.Warn("cache store pattern delete failed",
			"pattern", pattern, "error", err)
		l.recordPurge(memoRemoved)
		return memoRemoved, nil
	}

	l.recordPurge(removed)
	return removed, nil
}

// Flush clears the memo, the namespace in the backing store, and the
// metadata registry, then fires the cache-flushed notification.
func (l *Layered) Flush(ctx context.Context) bool {
	l.memo.Reset()
	l.updateMemoSize()

	l.mu.Lock()
	cleared := len(l.metadata)
	l.metadata = make(map[string]entryMeta)
	l.mu.Unlock()

	ok := true
	if err := l.store.Flush(ctx); err != nil {
		l.logger.Warn("cache store flush failed", "error", err)
		ok = false
	}

	l.recordPurge(cleared)
	l.dispatcher.Notify(hook.EventCacheFlushed, nil)
	return ok
}

// ResetMemo discards the request-scoped memo layer. Call between
// generation requests.
func (l *Layered) ResetMemo() {
	l.memo.Reset()
	l.updateMemoSize()
}

// Stats returns the live statistics collector.
func (l *Layered) Stats() *Statistics {
	return l.stats
}

// MetadataLen reports how many entries the registry currently tracks.
func (l *Layered) MetadataLen() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.metadata)
}

// purgeExpiredMetadataLocked drops registry entries whose expiry has
// passed. Caller must hold l.mu.
func (l *Layered) purgeExpiredMetadataLocked(now time.Time) {
	for key, meta := range l.metadata {
		if now.After(meta.Expires) {
			delete(l.metadata, key)
		}
	}
}

func (l *Layered) recordHit() {
	l.stats.Hit()
	if l.metrics != nil {
		l.metrics.recordHit()
	}
}

func (l *Layered) recordMiss() {
	l.stats.Miss()
	if l.metrics != nil {
		l.metrics.recordMiss()
	}
}

func (l *Layered) recordSet() {
	l.stats.Set()
	if l.metrics != nil {
		l.metrics.recordSet()
	}
}

func (l *Layered) recordDelete() {
	l.stats.Delete()
	if l.metrics != nil {
		l.metrics.recordDelete()
	}
}

func (l *Layered) recordPurge(count int) {
	l.stats.Purge(int64(count))
	if l.metrics != nil {
		l.metrics.recordPurge(count)
	}
}

func (l *Layered) updateMemoSize() {
	size := l.memo.Len()
	l.stats.UpdateSize(int64(size))
	if l.metrics != nil {
		l.metrics.updateMemoSize(size)
	}
}
