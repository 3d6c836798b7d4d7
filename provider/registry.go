package provider

import (
	"sort"
	"sync"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/errors"
	"github.com/builtnorth/schemagraph/hook"
)

// Registry holds registered providers and resolves the applicable set for
// a generation context. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	providers  map[string]*registration
	nextSeq    int
	dispatcher hook.Dispatcher
	collected  bool
}

type registration struct {
	provider Provider
	seq      int
}

// NewRegistry creates an empty provider registry. The dispatcher fires
// the collect-providers notification before first use; pass nil for none.
func NewRegistry(dispatcher hook.Dispatcher) *Registry {
	if dispatcher == nil {
		dispatcher = hook.Noop{}
	}
	return &Registry{
		providers:  make(map[string]*registration),
		dispatcher: dispatcher,
	}
}

// Register adds a provider. Registering an id that already exists
// replaces the previous provider and returns false; a fresh registration
// returns true. The replacement keeps a new sequence number, so it sorts
// as if registered at replacement time.
func (r *Registry) Register(p Provider) bool {
	if p == nil || p.ID() == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.providers[p.ID()]
	r.providers[p.ID()] = &registration{provider: p, seq: r.nextSeq}
	r.nextSeq++
	return !existed
}

// Unregister removes a provider by id, reporting whether it was present.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.providers[id]
	delete(r.providers, id)
	return existed
}

// Get returns a registered provider by id.
func (r *Registry) Get(id string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.providers[id]
	if !ok {
		return nil, errors.WrapInvalid(errors.ErrUnknownProvider, "Registry", "Get", "lookup of "+id)
	}
	return reg.provider, nil
}

// Has reports whether a provider id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[id]
	return ok
}

// Providers returns all registered providers sorted by priority, stable
// on registration order for equal priorities.
func (r *Registry) Providers() []Provider {
	r.collectOnce()

	r.mu.RLock()
	regs := make([]*registration, 0, len(r.providers))
	for _, reg := range r.providers {
		regs = append(regs, reg)
	}
	r.mu.RUnlock()

	sortRegistrations(regs)

	out := make([]Provider, len(regs))
	for i, reg := range regs {
		out[i] = reg.provider
	}
	return out
}

// ForContext returns the providers applicable to the context, sorted
// ascending by priority with registration order breaking ties.
func (r *Registry) ForContext(c *content.Context, opts content.Options) []Provider {
	applicable := make([]Provider, 0)
	for _, p := range r.Providers() {
		if p.CanProvide(c, opts) {
			applicable = append(applicable, p)
		}
	}
	return applicable
}

// Len reports the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// collectOnce fires the collect-providers notification the first time the
// registry is consulted, giving integrations a late registration point.
func (r *Registry) collectOnce() {
	r.mu.Lock()
	if r.collected {
		r.mu.Unlock()
		return
	}
	r.collected = true
	r.mu.Unlock()

	r.dispatcher.Notify(hook.EventCollectProviders, r)
}

func sortRegistrations(regs []*registration) {
	sort.SliceStable(regs, func(i, j int) bool {
		pi, pj := regs[i].provider.Priority(), regs[j].provider.Priority()
		if pi != pj {
			return pi < pj
		}
		return regs[i].seq < regs[j].seq
	})
}
