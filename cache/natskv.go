package cache

import (
	"context"
	stderrors "errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/builtnorth/schemagraph/errors"
)

// kvEnvelope wraps a stored value with its expiry. NATS KV buckets only
// support bucket-level TTL, so per-key expiry is tracked in the envelope and
// expired entries are treated as absent.
type kvEnvelope struct {
	Data    []byte     `json:"data"`
	Expires *time.Time `json:"expires,omitempty"`
}

func (e kvEnvelope) expired() bool {
	return e.Expires != nil && time.Now().After(*e.Expires)
}

// KVStore is a Store implementation backed by a NATS JetStream KV bucket,
// for hosts that share one cache across processes.
type KVStore struct {
	kv jetstream.KeyValue
}

// NewKVStore binds the store to an existing KV bucket handle.
func NewKVStore(kv jetstream.KeyValue) (*KVStore, error) {
	if kv == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "KVStore", "NewKVStore",
			"kv bucket validation")
	}
	return &KVStore{kv: kv}, nil
}

// OpenKVStore creates or opens the named KV bucket and binds a store to it.
func OpenKVStore(ctx context.Context, js jetstream.JetStream, bucket string) (*KVStore, error) {
	if js == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "KVStore", "OpenKVStore",
			"jetstream validation")
	}
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "schemagraph cache",
	})
	if err != nil {
		return nil, errors.WrapTransient(err, "KVStore", "OpenKVStore", "bucket open")
	}
	return &KVStore{kv: kv}, nil
}

// Get retrieves the raw value for a storage key.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, errors.WrapTransient(err, "KVStore", "Get", "kv read")
	}

	var env kvEnvelope
	if err := json.Unmarshal(entry.Value(), &env); err != nil {
		return nil, false, errors.WrapInvalid(err, "KVStore", "Get", "envelope decode")
	}
	if env.expired() {
		// Best effort removal; a failed purge only delays cleanup
		_ = s.kv.Purge(ctx, key)
		return nil, false, nil
	}
	return env.Data, true, nil
}

// Set stores a raw value under a storage key.
func (s *KVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	env := kvEnvelope{Data: value}
	if ttl > 0 {
		expires := time.Now().Add(ttl)
		env.Expires = &expires
	}

	data, err := json.Marshal(env)
	if err != nil {
		return errors.WrapInvalid(err, "KVStore", "Set", "envelope encode")
	}
	if _, err := s.kv.Put(ctx, key, data); err != nil {
		return errors.WrapTransient(err, "KVStore", "Set", "kv write")
	}
	return nil
}

// Delete removes a storage key.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.kv.Purge(ctx, key); err != nil && !stderrors.Is(err, jetstream.ErrKeyNotFound) {
		return errors.WrapTransient(err, "KVStore", "Delete", "kv purge")
	}
	return nil
}

// Has reports whether a storage key exists and is unexpired.
func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

// Keys returns all storage keys currently held in the bucket.
func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, errors.WrapTransient(err, "KVStore", "Keys", "kv key listing")
	}

	var keys []string
	for key := range lister.Keys() {
		keys = append(keys, key)
	}
	return keys, nil
}

// DeletePattern removes every key matching the glob pattern. NATS KV has no
// native wildcard delete, so keys are listed and matched with the same
// compiled pattern semantics the memo layer uses.
func (s *KVStore) DeletePattern(ctx context.Context, pattern string) (int, error) {
	re, err := CompilePattern(pattern)
	if err != nil {
		return 0, err
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		if !re.MatchString(key) {
			continue
		}
		if err := s.Delete(ctx, key); err != nil {
			// Partial failure must not block the remaining keys
			continue
		}
		removed++
	}
	return removed, nil
}

// Flush removes every key in the bucket.
func (s *KVStore) Flush(ctx context.Context) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return err
	}
	var lastErr error
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
