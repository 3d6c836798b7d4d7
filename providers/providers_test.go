package providers

import (
	"context"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/hook"
	"github.com/builtnorth/schemagraph/manager"
	"github.com/builtnorth/schemagraph/provider"
	"github.com/builtnorth/schemagraph/schematype"
	"github.com/builtnorth/schemagraph/validate"
)

func fixtureSource(t *testing.T) *content.StaticSource {
	t.Helper()
	src := content.NewStaticSource("Acme", "Widgets since 1901", "https://acme.example")
	src.AddPost(&content.Post{
		ID:        42,
		Type:      "post",
		Title:     "Hello World",
		Excerpt:   "The first post.",
		AuthorID:  7,
		Published: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Modified:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}, "https://acme.example/hello-world")
	src.Authors[7] = "Jo Doe"
	src.Images[42] = &content.Image{URL: "https://acme.example/hello.jpg", Width: 1200, Height: 630}
	src.AddTerm(&content.Term{ID: 7, Taxonomy: "category", Name: "News"})
	return src
}

func TestRegister(t *testing.T) {
	src := fixtureSource(t)

	t.Run("registers the built-in set", func(t *testing.T) {
		registry := provider.NewRegistry(nil)
		require.NoError(t, Register(registry, src))
		assert.Equal(t, 5, registry.Len())
	})

	t.Run("nil arguments rejected", func(t *testing.T) {
		assert.Error(t, Register(nil, src))
		assert.Error(t, Register(provider.NewRegistry(nil), nil))
	})
}

func TestOrganizationProvider(t *testing.T) {
	p := NewOrganization(fixtureSource(t))

	assert.True(t, p.CanProvide(content.NewContext(content.KindHome), nil))
	assert.True(t, p.CanProvide(content.NewContext(content.KindSearch), nil))

	pieces, err := p.Provide(context.Background(), content.NewContext(content.KindHome), nil)
	require.NoError(t, err)
	require.Len(t, pieces, 1)

	m := pieces[0].ToMap()
	assert.Equal(t, OrganizationID, m["@id"])
	assert.Equal(t, "Organization", m["@type"])
	assert.Equal(t, "Acme", m["name"])
	assert.Equal(t, "https://acme.example", m["url"])
	assert.Equal(t, "Widgets since 1901", m["description"])
}

func TestWebSiteProvider(t *testing.T) {
	p := NewWebSite(fixtureSource(t))

	pieces, err := p.Provide(context.Background(), content.NewContext(content.KindHome), nil)
	require.NoError(t, err)
	require.Len(t, pieces, 1)

	m := pieces[0].ToMap()
	assert.Equal(t, WebSiteID, m["@id"])
	assert.Equal(t, map[string]any{"@id": OrganizationID}, m["publisher"])
	assert.Equal(t, []string{OrganizationID}, pieces[0].References())
}

func TestArticleProvider(t *testing.T) {
	p := NewArticle(fixtureSource(t))

	t.Run("singular contexts only", func(t *testing.T) {
		singular := content.NewContext(content.KindSingular)
		singular.ObjectID = 42
		assert.True(t, p.CanProvide(singular, nil))
		assert.False(t, p.CanProvide(content.NewContext(content.KindHome), nil))
		assert.False(t, p.CanProvide(content.NewContext(content.KindSingular), nil),
			"no object id, nothing to describe")
	})

	t.Run("builds the blog posting", func(t *testing.T) {
		c := content.NewContext(content.KindSingular)
		c.ObjectID = 42

		pieces, err := p.Provide(context.Background(), c, nil)
		require.NoError(t, err)
		require.Len(t, pieces, 1)

		m := pieces[0].ToMap()
		assert.Equal(t, "BlogPosting", m["@type"])
		assert.Equal(t, "Hello World", m["headline"])
		assert.Equal(t, "https://acme.example/hello-world", m["url"])
		assert.Equal(t, "2026-03-01T09:00:00Z", m["datePublished"])
		assert.Equal(t, "2026-03-02T09:00:00Z", m["dateModified"])

		author, ok := m["author"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Jo Doe", author["name"])

		image, ok := m["image"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, int64(1200), image["width"])

		assert.ElementsMatch(t, []string{WebSiteID, OrganizationID}, pieces[0].References())
	})

	t.Run("missing post is an error", func(t *testing.T) {
		c := content.NewContext(content.KindSingular)
		c.ObjectID = 999
		_, err := p.Provide(context.Background(), c, nil)
		assert.Error(t, err)
	})
}

func TestFAQProvider(t *testing.T) {
	p := NewFAQ()

	t.Run("no entries, not applicable", func(t *testing.T) {
		assert.False(t, p.CanProvide(content.NewContext(content.KindSingular), nil))
	})

	t.Run("entries build a question list", func(t *testing.T) {
		c := content.NewContext(content.KindSingular).WithValue(FAQEntriesKey, []FAQEntry{
			{Question: "What is it?", Answer: "A widget."},
			{Question: "How much?", Answer: "Ten."},
		})
		require.True(t, p.CanProvide(c, nil))

		pieces, err := p.Provide(context.Background(), c, nil)
		require.NoError(t, err)
		require.Len(t, pieces, 1)

		m := pieces[0].ToMap()
		assert.Equal(t, "FAQPage", m["@type"])
		questions, ok := m["mainEntity"].([]any)
		require.True(t, ok)
		require.Len(t, questions, 2)

		first := questions[0].(map[string]any)
		assert.Equal(t, "Question", first["@type"])
		assert.Equal(t, "What is it?", first["name"])
		answer := first["acceptedAnswer"].(map[string]any)
		assert.Equal(t, "A widget.", answer["text"])
	})
}

func TestBreadcrumbProvider(t *testing.T) {
	p := NewBreadcrumb(fixtureSource(t))

	t.Run("home excluded", func(t *testing.T) {
		assert.False(t, p.CanProvide(content.NewContext(content.KindHome), nil))
	})

	t.Run("singular trail", func(t *testing.T) {
		c := content.NewContext(content.KindSingular)
		c.ObjectID = 42

		pieces, err := p.Provide(context.Background(), c, nil)
		require.NoError(t, err)
		m := pieces[0].ToMap()

		items, ok := m["itemListElement"].([]any)
		require.True(t, ok)
		require.Len(t, items, 2)

		home := items[0].(map[string]any)
		assert.Equal(t, int64(1), home["position"])
		assert.Equal(t, "Acme", home["name"])

		page := items[1].(map[string]any)
		assert.Equal(t, int64(2), page["position"])
		assert.Equal(t, "Hello World", page["name"])
		assert.Equal(t, "https://acme.example/hello-world", page["item"])
	})

	t.Run("taxonomy trail uses term name", func(t *testing.T) {
		c := content.NewContext(content.KindTaxonomy)
		c.Taxonomy = "category"
		c.TermID = 7
		c.URL = "https://acme.example/category/news"

		pieces, err := p.Provide(context.Background(), c, nil)
		require.NoError(t, err)
		items := pieces[0].ToMap()["itemListElement"].([]any)
		require.Len(t, items, 2)
		assert.Equal(t, "News", items[1].(map[string]any)["name"])
	})
}

// TestHomePageDocument exercises the whole stack: built-in providers,
// manager pass, graph assembly, JSON-LD output.
func TestHomePageDocument(t *testing.T) {
	dispatcher := hook.NewRegistry()
	registry := provider.NewRegistry(dispatcher)
	require.NoError(t, Register(registry, fixtureSource(t)))

	types := schematype.NewRegistry()
	RegisterTypes(types)
	m, err := manager.New(manager.Config{
		Providers:  registry,
		Types:      types,
		Validator:  validate.New(types),
		Dispatcher: dispatcher,
	})
	require.NoError(t, err)

	g, err := m.GenerateGraph(context.Background(), content.NewContext(content.KindHome), nil)
	require.NoError(t, err)

	require.Equal(t, 2, g.Len(), "home page gets exactly organization and website")
	pieces := g.Pieces()
	assert.Equal(t, OrganizationID, pieces[0].ID())
	assert.Equal(t, WebSiteID, pieces[1].ID())
	assert.Empty(t, g.ValidateReferences())

	report := m.Report()
	assert.Zero(t, report.ValidationErrors, "built-in pieces satisfy their type constraints")
	assert.Empty(t, report.ProviderFailures)

	data, err := g.ToJSON()
	require.NoError(t, err)

	var doc struct {
		Context string           `json:"@context"`
		Graph   []map[string]any `json:"@graph"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "https://schema.org", doc.Context)
	require.Len(t, doc.Graph, 2)
	assert.Equal(t, map[string]any{"@id": OrganizationID}, doc.Graph[1]["publisher"])

	t.Run("idempotent output", func(t *testing.T) {
		again, err := m.GenerateGraph(context.Background(), content.NewContext(content.KindHome), nil)
		require.NoError(t, err)
		data2, err := again.ToJSON()
		require.NoError(t, err)
		assert.Equal(t, string(data), string(data2))
	})
}
