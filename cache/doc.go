// Package cache provides the layered, request-scoped cache that fronts
// expensive provider calls in the schema generation pipeline.
//
// # Overview
//
// The package combines three pieces:
//
//   - A memo layer: an in-process map whose lifetime is exactly one
//     generation request. It is discarded between requests (ResetMemo) so
//     stale data is never served cross-request.
//   - A backing Store: a namespaced key/value contract with TTL and
//     LIKE-style wildcard pattern deletion. Two implementations ship:
//     MemoryStore (in-process) and KVStore (NATS JetStream KV bucket).
//   - A metadata registry: per-key created/ttl/expires bookkeeping used for
//     pattern-based invalidation. Expired metadata is purged opportunistically
//     on every write.
//
// # Quick Start
//
//	store := cache.NewMemoryStore()
//	layered, err := cache.NewLayered("schemagraph", store)
//	if err != nil {
//	    return err
//	}
//
//	_ = layered.Set(ctx, "provider_home_organization", data, time.Hour)
//	value, ok := layered.Get(ctx, "provider_home_organization")
//
// # Failure Semantics
//
// Backing-store errors are treated as cache misses: generation proceeds
// uncached rather than failing the request. Pattern deletion applies the same
// compiled matching semantics to the memo layer and the backing store.
//
// # Key Namespacing
//
// Logical keys are prefixed with the cache namespace and capped at a fixed
// length limit. Overflow keys are shortened to a stable prefix plus a
// content hash of the original key. The preserved prefix keeps prefix-based
// invalidation patterns working; suffix-anchored patterns may miss truncated
// keys, a documented tradeoff.
//
// # Statistics and Metrics
//
// Statistics are always collected. Prometheus export is optional via
// WithMetrics, following the component-metrics registration pattern of the
// metric package.
package cache
