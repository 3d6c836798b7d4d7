package graph

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/hook"
	"github.com/builtnorth/schemagraph/schema"
)

func TestGraphAddPiece(t *testing.T) {
	g := New()

	require.NoError(t, g.AddPiece(schema.NewPiece("#organization", "Organization")))
	require.NoError(t, g.AddPiece(schema.NewPiece("#website", "WebSite")))
	assert.Equal(t, 2, g.Len())

	t.Run("nil and missing id rejected", func(t *testing.T) {
		assert.Error(t, g.AddPiece(nil))
		assert.Error(t, g.AddPiece(schema.NewPiece("", "Thing")))
	})

	t.Run("last write wins keeping first position", func(t *testing.T) {
		replacement := schema.NewPiece("#organization", "LocalBusiness")
		require.NoError(t, g.AddPiece(replacement))
		assert.Equal(t, 2, g.Len())

		pieces := g.Pieces()
		assert.Equal(t, "#organization", pieces[0].ID())
		assert.Equal(t, "LocalBusiness", pieces[0].Type())
		assert.Equal(t, "#website", pieces[1].ID())
	})
}

func TestGraphValidateReferences(t *testing.T) {
	g := New()
	org := schema.NewPiece("#organization", "Organization")
	site := schema.NewPiece("#website", "WebSite")
	site.AddReference("publisher", "#organization")
	require.NoError(t, g.AddPieces([]*schema.Piece{org, site}))

	assert.Empty(t, g.ValidateReferences())

	t.Run("dangling reference reported with exact message", func(t *testing.T) {
		article := schema.NewPiece("#article", "Article")
		article.AddReference("isPartOf", "#missing")
		require.NoError(t, g.AddPiece(article))

		problems := g.ValidateReferences()
		require.Len(t, problems, 1)
		assert.Equal(t, "Piece '#article' references missing piece '#missing'", problems[0])

		// The piece stays in the graph despite the broken link.
		_, ok := g.Piece("#article")
		assert.True(t, ok)
	})
}

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#organization", "organization"},
		{"#breadcrumb-list", "breadcrumb_list"},
		{"https://example.com/#website", "https_example_com_website"},
		{"Mixed Case ID", "mixed_case_id"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeID(tt.in), "sanitize %q", tt.in)
	}
}

func TestGraphApplyFilters(t *testing.T) {
	c := content.NewContext(content.KindHome)

	t.Run("whole collection filter can replace the set", func(t *testing.T) {
		g := New()
		g.AddPiece(schema.NewPiece("#organization", "Organization"))
		g.AddPiece(schema.NewPiece("#website", "WebSite"))

		dispatcher := hook.NewRegistry()
		dispatcher.AddFilter(hook.FilterGraphPieces, func(value any, _ ...any) (any, bool) {
			pieces := value.([]*schema.Piece)
			return pieces[:1], true
		}, hook.DefaultPriority)

		g.ApplyFilters(dispatcher, c, nil)
		assert.Equal(t, 1, g.Len())
		_, ok := g.Piece("#organization")
		assert.True(t, ok)
	})

	t.Run("per-type filter replaces the piece", func(t *testing.T) {
		g := New()
		g.AddPiece(schema.NewPiece("#organization", "Organization"))

		dispatcher := hook.NewRegistry()
		dispatcher.AddFilter("schema_piece_organization", func(value any, _ ...any) (any, bool) {
			p := schema.NewPiece("#organization", "Organization")
			p.SetString("name", "Filtered")
			return p, true
		}, hook.DefaultPriority)

		g.ApplyFilters(dispatcher, c, nil)
		p, _ := g.Piece("#organization")
		name, ok := p.Get("name")
		require.True(t, ok)
		assert.Equal(t, "Filtered", name.StringValue())
	})

	t.Run("per-id filter uses sanitized id", func(t *testing.T) {
		g := New()
		g.AddPiece(schema.NewPiece("#breadcrumb-list", "BreadcrumbList"))

		dispatcher := hook.NewRegistry()
		dispatcher.AddFilter("schema_piece_id_breadcrumb_list", func(value any, _ ...any) (any, bool) {
			p := schema.NewPiece("#breadcrumb-list", "BreadcrumbList")
			p.SetString("name", "Crumbs")
			return p, true
		}, hook.DefaultPriority)

		g.ApplyFilters(dispatcher, c, nil)
		p, _ := g.Piece("#breadcrumb-list")
		name, _ := p.Get("name")
		assert.Equal(t, "Crumbs", name.StringValue())
	})

	t.Run("non-piece replacement is discarded", func(t *testing.T) {
		g := New()
		original := schema.NewPiece("#organization", "Organization")
		original.SetString("name", "Original")
		g.AddPiece(original)

		dispatcher := hook.NewRegistry()
		dispatcher.AddFilter("schema_piece_organization", func(any, ...any) (any, bool) {
			return "not a piece", true
		}, hook.DefaultPriority)

		g.ApplyFilters(dispatcher, c, nil)
		p, _ := g.Piece("#organization")
		name, _ := p.Get("name")
		assert.Equal(t, "Original", name.StringValue(), "original retained")
	})
}

func TestGraphToMaps(t *testing.T) {
	g := New()
	org := schema.NewPiece("#organization", "Organization")
	org.SetString("name", "Acme")
	g.AddPiece(org)

	maps := g.ToMaps()
	require.Len(t, maps, 1)
	assert.Equal(t, "https://schema.org", maps[0]["@context"])
	assert.Equal(t, "Organization", maps[0]["@type"])
	assert.Equal(t, "#organization", maps[0]["@id"])
	assert.Equal(t, "Acme", maps[0]["name"])
}

func TestGraphToJSON(t *testing.T) {
	t.Run("empty graph errors", func(t *testing.T) {
		_, err := New().ToJSON()
		assert.Error(t, err)
	})

	t.Run("single piece renders bare object", func(t *testing.T) {
		g := New()
		org := schema.NewPiece("#organization", "Organization")
		org.SetString("name", "Acme")
		org.SetString("url", "https://acme.example/about")
		g.AddPiece(org)

		data, err := g.ToJSON()
		require.NoError(t, err)

		text := string(data)
		assert.NotContains(t, text, "@graph")
		assert.Contains(t, text, `"@context": "https://schema.org"`)
		assert.True(t, strings.Index(text, "@context") < strings.Index(text, "@type"),
			"@context leads the document")
		assert.Contains(t, text, "https://acme.example/about", "slashes stay unescaped")
		assert.NotContains(t, text, `\/`)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "Organization", decoded["@type"])
	})

	t.Run("multiple pieces render a graph envelope", func(t *testing.T) {
		g := New()
		org := schema.NewPiece("#organization", "Organization")
		site := schema.NewPiece("#website", "WebSite")
		site.AddReference("publisher", "#organization")
		g.AddPieces([]*schema.Piece{org, site})

		data, err := g.ToJSON()
		require.NoError(t, err)

		var decoded struct {
			Context string           `json:"@context"`
			Graph   []map[string]any `json:"@graph"`
		}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "https://schema.org", decoded.Context)
		require.Len(t, decoded.Graph, 2)
		assert.Equal(t, "#organization", decoded.Graph[0]["@id"])
		assert.Equal(t, map[string]any{"@id": "#organization"}, decoded.Graph[1]["publisher"])
	})

	t.Run("unicode preserved unescaped", func(t *testing.T) {
		g := New()
		org := schema.NewPiece("#organization", "Organization")
		org.SetString("name", "Café Münze")
		g.AddPiece(org)

		data, err := g.ToJSON()
		require.NoError(t, err)
		assert.Contains(t, string(data), "Café Münze")
	})
}
