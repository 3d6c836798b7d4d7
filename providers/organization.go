// Package providers ships the built-in piece providers: site identity
// (Organization, WebSite), singular content (BlogPosting), FAQ, and
// breadcrumbs.
package providers

import (
	"context"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/errors"
	"github.com/builtnorth/schemagraph/provider"
	"github.com/builtnorth/schemagraph/schema"
)

// Well-known piece ids. Stable across regenerations so references keep
// resolving.
const (
	OrganizationID = "#organization"
	WebSiteID      = "#website"
	ArticleID      = "#article"
	FAQID          = "#faq"
	BreadcrumbID   = "#breadcrumb"
)

// Organization emits the site owner as an Organization piece on every
// context.
type Organization struct {
	src content.Source
}

// NewOrganization creates the organization provider.
func NewOrganization(src content.Source) *Organization {
	return &Organization{src: src}
}

// ID implements provider.Provider.
func (o *Organization) ID() string { return "organization" }

// Priority runs early so dependent pieces can reference it.
func (o *Organization) Priority() int { return 1 }

// Types implements provider.Provider.
func (o *Organization) Types() []string { return []string{"Organization"} }

// CanProvide applies everywhere; the organization anchors every graph.
func (o *Organization) CanProvide(*content.Context, content.Options) bool { return true }

// Provide builds the #organization piece from site identity.
func (o *Organization) Provide(_ context.Context, _ *content.Context, _ content.Options) ([]*schema.Piece, error) {
	name, err := o.src.FetchSiteName()
	if err != nil {
		return nil, errors.Wrap(err, "Organization", "Provide", "site name fetch")
	}
	siteURL, err := o.src.FetchSiteURL()
	if err != nil {
		return nil, errors.Wrap(err, "Organization", "Provide", "site url fetch")
	}

	piece := schema.NewPiece(OrganizationID, "Organization")
	piece.SetString("name", name)
	piece.SetString("url", siteURL)

	if description, err := o.src.FetchSiteDescription(); err == nil && description != "" {
		piece.SetString("description", description)
	}

	return []*schema.Piece{piece}, nil
}
