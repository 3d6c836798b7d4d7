package providers

import (
	"context"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/errors"
	"github.com/builtnorth/schemagraph/schema"
)

// WebSite emits the site itself as a WebSite piece referencing the
// organization as publisher.
type WebSite struct {
	src content.Source
}

// NewWebSite creates the website provider.
func NewWebSite(src content.Source) *WebSite {
	return &WebSite{src: src}
}

// ID implements provider.Provider.
func (w *WebSite) ID() string { return "website" }

// Priority runs right after the organization.
func (w *WebSite) Priority() int { return 2 }

// Types implements provider.Provider.
func (w *WebSite) Types() []string { return []string{"WebSite"} }

// CanProvide applies everywhere.
func (w *WebSite) CanProvide(*content.Context, content.Options) bool { return true }

// Provide builds the #website piece.
func (w *WebSite) Provide(_ context.Context, _ *content.Context, _ content.Options) ([]*schema.Piece, error) {
	name, err := w.src.FetchSiteName()
	if err != nil {
		return nil, errors.Wrap(err, "WebSite", "Provide", "site name fetch")
	}
	siteURL, err := w.src.FetchSiteURL()
	if err != nil {
		return nil, errors.Wrap(err, "WebSite", "Provide", "site url fetch")
	}

	piece := schema.NewPiece(WebSiteID, "WebSite")
	piece.SetString("name", name)
	piece.SetString("url", siteURL)
	piece.AddReference("publisher", OrganizationID)

	return []*schema.Piece{piece}, nil
}
