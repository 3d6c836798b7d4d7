package providers

import (
	"context"
	"time"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/errors"
	"github.com/builtnorth/schemagraph/provider"
	"github.com/builtnorth/schemagraph/schema"
)

// Article emits a BlogPosting piece for singular contexts.
type Article struct {
	src content.Source
}

// NewArticle creates the article provider.
func NewArticle(src content.Source) *Article {
	return &Article{src: src}
}

// ID implements provider.Provider.
func (a *Article) ID() string { return "article" }

// Priority implements provider.Provider.
func (a *Article) Priority() int { return provider.DefaultPriority }

// Types implements provider.Provider.
func (a *Article) Types() []string { return []string{"BlogPosting"} }

// CanProvide applies to singular contexts with an object id.
func (a *Article) CanProvide(c *content.Context, _ content.Options) bool {
	return c.Kind == content.KindSingular && c.ObjectID > 0
}

// Provide builds the #article piece from the post behind the context.
func (a *Article) Provide(_ context.Context, c *content.Context, _ content.Options) ([]*schema.Piece, error) {
	post, err := a.src.FetchPost(c.ObjectID)
	if err != nil {
		return nil, errors.Wrap(err, "Article", "Provide", "post fetch")
	}

	piece := schema.NewPiece(ArticleID, "BlogPosting")
	piece.SetString("headline", post.Title)

	if permalink, err := a.src.FetchPermalink(post.ID); err == nil && permalink != "" {
		piece.SetString("url", permalink)
		piece.Set("mainEntityOfPage", schema.String(permalink))
	}
	if post.Excerpt != "" {
		piece.SetString("description", post.Excerpt)
	}
	if !post.Published.IsZero() {
		piece.SetString("datePublished", post.Published.Format(time.RFC3339))
	}
	if !post.Modified.IsZero() {
		piece.SetString("dateModified", post.Modified.Format(time.RFC3339))
	}

	if author, err := a.src.FetchAuthorName(post.AuthorID); err == nil && author != "" {
		person := schema.NewProperties()
		person.Set(schema.PropType, schema.String("Person"))
		person.Set("name", schema.String(author))
		piece.Set("author", schema.Mapping(person))
	}

	if image, err := a.src.FetchFeaturedImage(post.ID); err == nil && image != nil && image.URL != "" {
		imageObject := schema.NewProperties()
		imageObject.Set(schema.PropType, schema.String("ImageObject"))
		imageObject.Set("url", schema.String(image.URL))
		imageObject.Set("width", schema.Integer(int64(image.Width)))
		imageObject.Set("height", schema.Integer(int64(image.Height)))
		piece.Set("image", schema.Mapping(imageObject))
	}

	piece.AddReference("isPartOf", WebSiteID)
	piece.AddReference("publisher", OrganizationID)

	return []*schema.Piece{piece}, nil
}
