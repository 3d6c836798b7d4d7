package providers

import (
	goerrors "errors"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/errors"
	"github.com/builtnorth/schemagraph/provider"
)

// Register adds the built-in providers to the registry:
//
//   - Organization (every context, priority 1)
//   - WebSite (every context, priority 2, publisher -> organization)
//   - Article (singular contexts, BlogPosting)
//   - FAQ (opt-in via context values)
//   - Breadcrumb (every non-home context)
//
// Integrations register their own providers alongside these, either
// directly or through the collect-providers notification.
func Register(registry *provider.Registry, src content.Source) error {
	if registry == nil {
		return errors.WrapFatal(
			goerrors.New("registry cannot be nil"),
			"Providers", "Register", "registry validation")
	}
	if src == nil {
		return errors.WrapFatal(
			goerrors.New("content source cannot be nil"),
			"Providers", "Register", "source validation")
	}

	registry.Register(NewOrganization(src))
	registry.Register(NewWebSite(src))
	registry.Register(NewArticle(src))
	registry.Register(NewFAQ())
	registry.Register(NewBreadcrumb(src))

	return nil
}
