// Package schematype maps schema.org type names to their generators and
// the validation constraints registered alongside them.
package schematype

import (
	"sort"
	"sync"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/errors"
)

// Generator produces a complete schema object from raw data. Explicit
// strategy objects replace name-based lookup: a registration always
// carries the generator itself.
type Generator interface {
	Generate(data map[string]any, opts content.Options) (map[string]any, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(data map[string]any, opts content.Options) (map[string]any, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(data map[string]any, opts content.Options) (map[string]any, error) {
	return f(data, opts)
}

// ValidatorFunc is a custom per-type validation step. Returned errors and
// warnings are merged into the validator's result.
type ValidatorFunc func(schema map[string]any) (errs []string, warnings []string)

type entry struct {
	generator Generator
	required  []string
	allowed   []string
	validator ValidatorFunc
}

// Option configures a type registration.
type Option func(*entry)

// WithRequiredProperties lists properties that must be present and
// non-empty in generated schemas of this type.
func WithRequiredProperties(props ...string) Option {
	return func(e *entry) {
		e.required = append(e.required, props...)
	}
}

// WithAllowedProperties lists the properties schemas of this type may
// carry. Required properties are always allowed; the registry unions the
// two sets.
func WithAllowedProperties(props ...string) Option {
	return func(e *entry) {
		e.allowed = append(e.allowed, props...)
	}
}

// WithValidator attaches a custom validation step for this type.
func WithValidator(fn ValidatorFunc) Option {
	return func(e *entry) {
		e.validator = fn
	}
}

// Registry holds schema type registrations. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry creates an empty schema type registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register binds a generator to a schema.org type name. Registering an
// existing type overwrites it and returns false; a fresh registration
// returns true.
func (r *Registry) Register(schemaType string, generator Generator, options ...Option) bool {
	if schemaType == "" || generator == nil {
		return false
	}

	e := &entry{generator: generator}
	for _, opt := range options {
		opt(e)
	}
	if len(e.allowed) > 0 {
		e.allowed = unionProperties(e.allowed, e.required)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, existed := r.entries[schemaType]
	r.entries[schemaType] = e
	return !existed
}

// Unregister removes a type registration, reporting whether it existed.
func (r *Registry) Unregister(schemaType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, existed := r.entries[schemaType]
	delete(r.entries, schemaType)
	return existed
}

// Generator returns the generator registered for a type.
func (r *Registry) Generator(schemaType string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[schemaType]
	if !ok {
		return nil, errors.WrapInvalid(errors.ErrUnknownSchemaType, "Registry", "Generator",
			"lookup of "+schemaType)
	}
	return e.generator, nil
}

// Has reports whether a type is registered.
func (r *Registry) Has(schemaType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[schemaType]
	return ok
}

// RequiredProperties returns the required property names for a type, nil
// when the type is unknown or has none.
func (r *Registry) RequiredProperties(schemaType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[schemaType]; ok {
		return append([]string(nil), e.required...)
	}
	return nil
}

// AllowedProperties returns the allowed property names for a type
// (always a superset of the required set), nil when unrestricted.
func (r *Registry) AllowedProperties(schemaType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[schemaType]; ok && len(e.allowed) > 0 {
		return append([]string(nil), e.allowed...)
	}
	return nil
}

// Validator returns the custom validator for a type, nil when none.
func (r *Registry) Validator(schemaType string) ValidatorFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[schemaType]; ok {
		return e.validator
	}
	return nil
}

// Types returns all registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.entries))
	for name := range r.entries {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// unionProperties merges two property lists preserving first-seen order
// and dropping duplicates.
func unionProperties(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, prop := range list {
			if _, dup := seen[prop]; dup {
				continue
			}
			seen[prop] = struct{}{}
			out = append(out, prop)
		}
	}
	return out
}
