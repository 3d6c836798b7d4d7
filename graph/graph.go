// Package graph assembles schema pieces into a JSON-LD document: ordered
// collection, extension-point filtering, reference integrity, and final
// serialization.
package graph

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/errors"
	"github.com/builtnorth/schemagraph/hook"
	"github.com/builtnorth/schemagraph/schema"
)

var idSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// Graph is an ordered collection of schema pieces keyed by id. Pieces
// keep their first-insert position; re-adding an id replaces the piece
// in place.
type Graph struct {
	order  []string
	pieces map[string]*schema.Piece
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{pieces: make(map[string]*schema.Piece)}
}

// AddPiece adds a piece, replacing any existing piece with the same id
// while keeping its original position. Nil pieces and pieces without an
// id are rejected.
func (g *Graph) AddPiece(p *schema.Piece) error {
	if p == nil {
		return errors.WrapInvalid(errors.ErrInvalidData, "Graph", "AddPiece", "nil piece")
	}
	if p.ID() == "" {
		return errors.WrapInvalid(errors.ErrMissingID, "Graph", "AddPiece", "piece registration")
	}

	if _, exists := g.pieces[p.ID()]; !exists {
		g.order = append(g.order, p.ID())
	}
	g.pieces[p.ID()] = p
	return nil
}

// AddPieces adds several pieces in order, stopping at the first invalid
// one.
func (g *Graph) AddPieces(pieces []*schema.Piece) error {
	for _, p := range pieces {
		if err := g.AddPiece(p); err != nil {
			return err
		}
	}
	return nil
}

// Piece returns a piece by id.
func (g *Graph) Piece(id string) (*schema.Piece, bool) {
	p, ok := g.pieces[id]
	return p, ok
}

// Pieces returns the pieces in insertion order.
func (g *Graph) Pieces() []*schema.Piece {
	out := make([]*schema.Piece, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.pieces[id])
	}
	return out
}

// Len reports the number of pieces.
func (g *Graph) Len() int {
	return len(g.order)
}

// ValidateReferences checks that every reference resolves to a piece in
// the graph. It returns one message per dangling reference in piece
// insertion order and never fails: broken links stay in the output as
// unresolved @id pointers since removing them could cascade.
func (g *Graph) ValidateReferences() []string {
	var problems []string
	for _, id := range g.order {
		for _, ref := range g.pieces[id].References() {
			if _, ok := g.pieces[ref]; !ok {
				problems = append(problems,
					fmt.Sprintf("Piece '%s' references missing piece '%s'", id, ref))
			}
		}
	}
	return problems
}

// ApplyFilters runs the three piece filter stages through the
// dispatcher: the whole collection, then each piece by lower-cased type,
// then each piece by sanitized id. A filter replacement that is not a
// *schema.Piece is discarded and the prior piece kept.
func (g *Graph) ApplyFilters(dispatcher hook.Dispatcher, c *content.Context, opts content.Options) {
	if dispatcher == nil {
		return
	}

	filtered := dispatcher.ApplyFilters(hook.FilterGraphPieces, g.Pieces(), c, opts)
	if replacement, ok := filtered.([]*schema.Piece); ok {
		g.order = g.order[:0]
		for id := range g.pieces {
			delete(g.pieces, id)
		}
		for _, p := range replacement {
			if p != nil && p.ID() != "" {
				g.AddPiece(p)
			}
		}
	}

	for _, id := range g.order {
		p := g.pieces[id]

		byType := dispatcher.ApplyFilters(hook.FilterPieceTypePrefix+strings.ToLower(p.Type()), p, c, opts)
		if replacement, ok := byType.(*schema.Piece); ok && replacement != nil {
			p = replacement
		}

		byID := dispatcher.ApplyFilters(hook.FilterPieceIDPrefix+SanitizeID(id), p, c, opts)
		if replacement, ok := byID.(*schema.Piece); ok && replacement != nil {
			p = replacement
		}

		g.pieces[id] = p
	}
}

// SanitizeID renders a piece id as an extension-point name fragment:
// lower-cased with every non-alphanumeric run collapsed to one
// underscore.
func SanitizeID(id string) string {
	return strings.Trim(idSanitizer.ReplaceAllString(strings.ToLower(id), "_"), "_")
}

// ToMaps renders the pieces as plain maps in insertion order, injecting
// @context where a piece has none.
func (g *Graph) ToMaps() []map[string]any {
	out := make([]map[string]any, 0, len(g.order))
	for _, id := range g.order {
		m := g.pieces[id].ToMap()
		if _, ok := m[schema.PropContext]; !ok {
			m[schema.PropContext] = schema.Context
		}
		out = append(out, m)
	}
	return out
}

// ToJSON serializes the graph as a JSON-LD document. A single piece
// renders as a bare object; multiple pieces are wrapped in a @graph
// envelope. Output is two-space indented with HTML escaping off so
// slashes and unicode come through unaltered.
func (g *Graph) ToJSON() ([]byte, error) {
	if g.Len() == 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "Graph", "ToJSON", "serialization of empty graph")
	}

	if g.Len() == 1 {
		p := g.pieces[g.order[0]]
		doc := schema.NewProperties()
		doc.Set(schema.PropContext, schema.String(schema.Context))
		for _, key := range p.Properties().Keys() {
			v, _ := p.Properties().Get(key)
			doc.Set(key, v)
		}
		return encodeJSONLD(doc)
	}

	doc := graphDocument{Context: schema.Context, Graph: g.Pieces()}
	return encodeJSONLD(doc)
}

// graphDocument is the multi-piece envelope. Pieces omit their own
// @context inside @graph; the envelope carries it once.
type graphDocument struct {
	Context string          `json:"@context"`
	Graph   []*schema.Piece `json:"@graph"`
}

func encodeJSONLD(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "Graph", "ToJSON", "encoding")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
