package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/builtnorth/schemagraph/hook"
)

// Invalidator translates content change events into cache pattern deletes.
// Each change purges the provider output, assembled schema, and resolved
// context entries that could reference the changed object.
type Invalidator struct {
	cache      *Layered
	dispatcher hook.Dispatcher
	logger     *slog.Logger
}

// NewInvalidator creates an Invalidator over the given cache.
func NewInvalidator(cache *Layered, dispatcher hook.Dispatcher, logger *slog.Logger) *Invalidator {
	if dispatcher == nil {
		dispatcher = hook.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Invalidator{cache: cache, dispatcher: dispatcher, logger: logger}
}

// PostChanged purges entries affected by a post create, update, or delete.
// The home patterns are included because front pages commonly surface
// recent posts.
func (i *Invalidator) PostChanged(ctx context.Context, postID int64) {
	patterns := []string{
		fmt.Sprintf("provider_singular_*%d*", postID),
		"provider_home_*",
		fmt.Sprintf("schema_post_%d_*", postID),
		fmt.Sprintf("context_singular_*%d*", postID),
	}
	i.purge(ctx, patterns)
	i.dispatcher.Notify(hook.EventPostInvalidated, postID)
}

// TermChanged purges entries affected by a taxonomy term change.
func (i *Invalidator) TermChanged(ctx context.Context, termID int64) {
	patterns := []string{
		fmt.Sprintf("provider_taxonomy_*%d*", termID),
		"provider_archive_*",
		fmt.Sprintf("schema_term_%d_*", termID),
		fmt.Sprintf("context_taxonomy_*%d*", termID),
	}
	i.purge(ctx, patterns)
	i.dispatcher.Notify(hook.EventTermInvalidated, termID)
}

// SiteIdentityChanged purges site-wide entries after a change to the site
// name, description, or URL.
func (i *Invalidator) SiteIdentityChanged(ctx context.Context) {
	i.purge(ctx, []string{
		"provider_home_*",
		"schema_site_*",
	})
}

// StructureChanged flushes the entire cache. Theme switches, plugin
// activation, and menu edits can change any output, so nothing cached
// beforehand is trustworthy.
func (i *Invalidator) StructureChanged(ctx context.Context) {
	i.cache.Flush(ctx)
}

func (i *Invalidator) purge(ctx context.Context, patterns []string) {
	for _, pattern := range patterns {
		removed, err := i.cache.DeleteByPattern(ctx, pattern)
		if err != nil {
			i.logger.Warn("cache invalidation pattern failed",
				"pattern", pattern, "error", err)
			continue
		}
		if removed > 0 {
			i.logger.Debug("cache entries invalidated",
				"pattern", pattern, "removed", removed)
		}
	}
}
