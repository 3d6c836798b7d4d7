package providers

import (
	"context"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/errors"
	"github.com/builtnorth/schemagraph/schema"
)

// Breadcrumb emits a BreadcrumbList piece for every non-home context:
// the site front page first, the current page second.
type Breadcrumb struct {
	src content.Source
}

// NewBreadcrumb creates the breadcrumb provider.
func NewBreadcrumb(src content.Source) *Breadcrumb {
	return &Breadcrumb{src: src}
}

// ID implements provider.Provider.
func (b *Breadcrumb) ID() string { return "breadcrumb" }

// Priority runs late; the trail decorates whatever the page is.
func (b *Breadcrumb) Priority() int { return 20 }

// Types implements provider.Provider.
func (b *Breadcrumb) Types() []string { return []string{"BreadcrumbList"} }

// CanProvide applies everywhere except the front page, which has no
// trail to describe.
func (b *Breadcrumb) CanProvide(c *content.Context, _ content.Options) bool {
	return c.Kind != content.KindHome
}

// Provide builds the #breadcrumb piece.
func (b *Breadcrumb) Provide(_ context.Context, c *content.Context, _ content.Options) ([]*schema.Piece, error) {
	siteName, err := b.src.FetchSiteName()
	if err != nil {
		return nil, errors.Wrap(err, "Breadcrumb", "Provide", "site name fetch")
	}
	siteURL, err := b.src.FetchSiteURL()
	if err != nil {
		return nil, errors.Wrap(err, "Breadcrumb", "Provide", "site url fetch")
	}

	items := []schema.Value{listItem(1, siteName, siteURL)}

	name, url := b.currentPage(c)
	if name != "" {
		items = append(items, listItem(2, name, url))
	}

	piece := schema.NewPiece(BreadcrumbID, "BreadcrumbList")
	piece.Set("itemListElement", schema.Sequence(items...))

	return []*schema.Piece{piece}, nil
}

// currentPage resolves the display name and URL of the context's page.
func (b *Breadcrumb) currentPage(c *content.Context) (string, string) {
	switch c.Kind {
	case content.KindSingular:
		title, err := b.src.FetchTitle(c.ObjectID)
		if err != nil {
			return "", ""
		}
		url, _ := b.src.FetchPermalink(c.ObjectID)
		if url == "" {
			url = c.URL
		}
		return title, url
	case content.KindTaxonomy:
		term, err := b.src.FetchTerm(c.Taxonomy, c.TermID)
		if err != nil {
			return "", ""
		}
		return term.Name, c.URL
	default:
		return "", ""
	}
}

func listItem(position int64, name, url string) schema.Value {
	item := schema.NewProperties()
	item.Set(schema.PropType, schema.String("ListItem"))
	item.Set("position", schema.Integer(position))
	item.Set("name", schema.String(name))
	if url != "" {
		item.Set("item", schema.String(url))
	}
	return schema.Mapping(item)
}
