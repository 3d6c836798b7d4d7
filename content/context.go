// Package content defines the generation context and the black-box content
// source contract the core consumes. The hosting application's storage is
// never assumed; everything arrives through synchronous fetch calls.
package content

import (
	"fmt"
)

// ContextKind identifies the logical page situation being described.
type ContextKind string

const (
	// KindHome is the site front page.
	KindHome ContextKind = "home"
	// KindSingular is a single content object (post, page, product).
	KindSingular ContextKind = "singular"
	// KindArchive is a date or post-type archive listing.
	KindArchive ContextKind = "archive"
	// KindTaxonomy is a taxonomy term listing.
	KindTaxonomy ContextKind = "taxonomy"
	// KindSearch is a search results page.
	KindSearch ContextKind = "search"
	// KindNotFound is a 404 page.
	KindNotFound ContextKind = "notfound"
)

// IsValid checks if the kind is one of the defined constants.
func (k ContextKind) IsValid() bool {
	switch k {
	case KindHome, KindSingular, KindArchive, KindTaxonomy, KindSearch, KindNotFound:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (k ContextKind) String() string { return string(k) }

// Context describes one generation request: which logical page is being
// rendered and the identifiers needed to fetch its content. A context is
// built once per inbound request and passed by reference through the
// pipeline.
type Context struct {
	Kind     ContextKind
	ObjectID int64  // content object id for singular contexts
	Taxonomy string // taxonomy name for taxonomy contexts
	TermID   int64  // term id for taxonomy contexts
	URL      string // canonical URL of the described page

	// Values carries request-scoped extras (e.g. FAQ entries supplied by
	// the integration layer) without widening the struct per feature.
	Values map[string]any
}

// NewContext creates a context of the given kind with empty extras.
func NewContext(kind ContextKind) *Context {
	return &Context{Kind: kind, Values: make(map[string]any)}
}

// Key renders a stable fragment used in cache keys: "home",
// "singular_42", "taxonomy_category_7", "archive", ...
func (c *Context) Key() string {
	switch c.Kind {
	case KindSingular:
		return fmt.Sprintf("%s_%d", c.Kind, c.ObjectID)
	case KindTaxonomy:
		return fmt.Sprintf("%s_%s_%d", c.Kind, c.Taxonomy, c.TermID)
	default:
		return string(c.Kind)
	}
}

// Value retrieves a request-scoped extra.
func (c *Context) Value(key string) (any, bool) {
	if c.Values == nil {
		return nil, false
	}
	v, ok := c.Values[key]
	return v, ok
}

// WithValue stores a request-scoped extra and returns the context for
// chaining.
func (c *Context) WithValue(key string, value any) *Context {
	if c.Values == nil {
		c.Values = make(map[string]any)
	}
	c.Values[key] = value
	return c
}
