// Package hook provides the extension-point dispatcher through which external
// code observes and transforms data at defined points of the generation
// pipeline.
package hook

import (
	"sort"
	"sync"
)

// Well-known extension point names.
const (
	// EventCollectProviders fires before the first generation pass so
	// external code can register providers.
	EventCollectProviders = "schema_collect_providers"

	// FilterPreGeneration runs over raw provider data before validation.
	FilterPreGeneration = "schema_pre_generation"

	// FilterCacheKey runs over every cache key before lookup.
	FilterCacheKey = "schema_cache_key"

	// FilterGraphPieces runs over the whole piece collection.
	FilterGraphPieces = "schema_graph_pieces"

	// FilterPieceTypePrefix keys per-type piece filters; the lower-cased
	// type name is appended (e.g. "schema_piece_organization").
	FilterPieceTypePrefix = "schema_piece_"

	// FilterPieceIDPrefix keys per-id piece filters; the sanitized id is
	// appended (e.g. "schema_piece_id_organization").
	FilterPieceIDPrefix = "schema_piece_id_"

	// EventSchemaGenerated fires after a generation pass completes.
	EventSchemaGenerated = "schema_generated"

	// EventCacheFlushed fires after a full cache flush.
	EventCacheFlushed = "schema_cache_flushed"

	// EventPostInvalidated fires after post-scoped cache invalidation.
	EventPostInvalidated = "schema_post_invalidated"

	// EventTermInvalidated fires after term-scoped cache invalidation.
	EventTermInvalidated = "schema_term_invalidated"
)

// DefaultPriority is the filter/action priority used when callers have no
// ordering requirement. Lower runs first.
const DefaultPriority = 10

// FilterFunc transforms a value at an extension point. Returning false means
// "no opinion": the prior value is kept and the next participant runs. This
// replaces the convention of overloading a nil data value as a skip sentinel.
type FilterFunc func(value any, args ...any) (any, bool)

// ActionFunc observes a notification-only event. Its return value, if any,
// is never consumed.
type ActionFunc func(payload any)

// Dispatcher is the extension-point invocation contract the core depends on.
// ApplyFilters threads a value through registered filters and returns the
// final value; Notify fires a notification-only event.
type Dispatcher interface {
	ApplyFilters(name string, value any, args ...any) any
	Notify(name string, payload any)
}

type filterRegistration struct {
	fn       FilterFunc
	priority int
	seq      int // registration order, breaks priority ties
}

type actionRegistration struct {
	fn       ActionFunc
	priority int
	seq      int
}

// Registry is the default Dispatcher implementation: an explicit, injectable
// registry of filters and actions keyed by event name. It is thread-safe for
// registration, though generation itself is single-threaded per request.
type Registry struct {
	mu      sync.RWMutex
	seq     int
	filters map[string][]filterRegistration
	actions map[string][]actionRegistration
}

// NewRegistry creates an empty dispatcher registry.
func NewRegistry() *Registry {
	return &Registry{
		filters: make(map[string][]filterRegistration),
		actions: make(map[string][]actionRegistration),
	}
}

// AddFilter registers a filter for the named extension point. Filters run in
// ascending priority order; equal priorities run in registration order.
func (r *Registry) AddFilter(name string, fn FilterFunc, priority int) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	regs := append(r.filters[name], filterRegistration{fn: fn, priority: priority, seq: r.seq})
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].priority != regs[j].priority {
			return regs[i].priority < regs[j].priority
		}
		return regs[i].seq < regs[j].seq
	})
	r.filters[name] = regs
}

// AddAction registers an observer for the named notification event.
func (r *Registry) AddAction(name string, fn ActionFunc, priority int) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	regs := append(r.actions[name], actionRegistration{fn: fn, priority: priority, seq: r.seq})
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].priority != regs[j].priority {
			return regs[i].priority < regs[j].priority
		}
		return regs[i].seq < regs[j].seq
	})
	r.actions[name] = regs
}

// ApplyFilters threads value through every filter registered under name.
// A participant returning false leaves the current value untouched.
func (r *Registry) ApplyFilters(name string, value any, args ...any) any {
	r.mu.RLock()
	regs := r.filters[name]
	r.mu.RUnlock()

	current := value
	for _, reg := range regs {
		if next, ok := reg.fn(current, args...); ok {
			current = next
		}
	}
	return current
}

// Notify fires a notification-only event. Observers run in priority order;
// nothing is returned.
func (r *Registry) Notify(name string, payload any) {
	r.mu.RLock()
	regs := r.actions[name]
	r.mu.RUnlock()

	for _, reg := range regs {
		reg.fn(payload)
	}
}

// HasFilters reports whether any filter is registered under name.
func (r *Registry) HasFilters(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.filters[name]) > 0
}

// Noop is a Dispatcher that applies no filters and drops notifications.
// Useful as a default when callers do not wire extension points.
type Noop struct{}

// ApplyFilters returns value unchanged.
func (Noop) ApplyFilters(_ string, value any, _ ...any) any { return value }

// Notify drops the event.
func (Noop) Notify(string, any) {}
