// Package provider defines the piece provider contract and the registry
// that resolves which providers apply to a generation context.
package provider

import (
	"context"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/schema"
)

// DefaultPriority is the mid-range priority assigned when a provider has
// no ordering preference. Lower priorities run first.
const DefaultPriority = 10

// Provider produces schema pieces for contexts it declares itself
// applicable to. Implementations must be safe for concurrent use; the
// registry may consult them from multiple generation requests at once.
type Provider interface {
	// ID is the stable identifier used in cache keys and registration.
	ID() string

	// Priority orders providers within a generation pass. Lower runs
	// earlier.
	Priority() int

	// Types lists the schema.org types this provider can emit.
	Types() []string

	// CanProvide reports whether this provider applies to the context.
	// It must be cheap; expensive work belongs in Provide.
	CanProvide(c *content.Context, opts content.Options) bool

	// Provide produces the pieces for the context. Returning an empty
	// slice with nil error means "applicable but nothing to say".
	Provide(ctx context.Context, c *content.Context, opts content.Options) ([]*schema.Piece, error)
}
