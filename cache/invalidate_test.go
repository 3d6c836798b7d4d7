package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/builtnorth/schemagraph/hook"
)

func seedInvalidationFixture(t *testing.T, ctx context.Context, l *Layered) {
	t.Helper()
	keys := []string{
		"provider_singular_home_42_article",
		"provider_singular_home_43_article",
		"provider_home_website",
		"schema_post_42_full",
		"context_singular_home_42",
		"provider_taxonomy_category_7_breadcrumb",
		"provider_archive_category_list",
		"schema_term_7_full",
		"context_taxonomy_category_7",
		"schema_site_identity",
	}
	for _, key := range keys {
		require.True(t, l.Set(ctx, key, "payload", time.Minute))
	}
}

func TestInvalidatorPostChanged(t *testing.T) {
	ctx := context.Background()
	dispatcher := hook.NewRegistry()
	l, err := NewLayered(NewMemoryStore(), WithDispatcher(dispatcher))
	require.NoError(t, err)
	seedInvalidationFixture(t, ctx, l)

	var notifiedID any
	dispatcher.AddAction(hook.EventPostInvalidated, func(payload any) {
		notifiedID = payload
	}, hook.DefaultPriority)

	inv := NewInvalidator(l, dispatcher, nil)
	inv.PostChanged(ctx, 42)

	gone := []string{
		"provider_singular_home_42_article",
		"provider_home_website",
		"schema_post_42_full",
		"context_singular_home_42",
	}
	for _, key := range gone {
		assert.False(t, l.Has(ctx, key), "expected %q purged", key)
	}

	survivors := []string{
		"provider_singular_home_43_article",
		"schema_term_7_full",
		"schema_site_identity",
		"provider_taxonomy_category_7_breadcrumb",
	}
	for _, key := range survivors {
		assert.True(t, l.Has(ctx, key), "expected %q to survive", key)
	}

	assert.Equal(t, int64(42), notifiedID)
}

func TestInvalidatorTermChanged(t *testing.T) {
	ctx := context.Background()
	dispatcher := hook.NewRegistry()
	l, err := NewLayered(NewMemoryStore(), WithDispatcher(dispatcher))
	require.NoError(t, err)
	seedInvalidationFixture(t, ctx, l)

	var notifiedID any
	dispatcher.AddAction(hook.EventTermInvalidated, func(payload any) {
		notifiedID = payload
	}, hook.DefaultPriority)

	inv := NewInvalidator(l, dispatcher, nil)
	inv.TermChanged(ctx, 7)

	gone := []string{
		"provider_taxonomy_category_7_breadcrumb",
		"provider_archive_category_list",
		"schema_term_7_full",
		"context_taxonomy_category_7",
	}
	for _, key := range gone {
		assert.False(t, l.Has(ctx, key), "expected %q purged", key)
	}

	assert.True(t, l.Has(ctx, "provider_singular_home_42_article"))
	assert.True(t, l.Has(ctx, "schema_site_identity"))
	assert.Equal(t, int64(7), notifiedID)
}

func TestInvalidatorSiteIdentityChanged(t *testing.T) {
	ctx := context.Background()
	l, err := NewLayered(NewMemoryStore())
	require.NoError(t, err)
	seedInvalidationFixture(t, ctx, l)

	inv := NewInvalidator(l, nil, nil)
	inv.SiteIdentityChanged(ctx)

	assert.False(t, l.Has(ctx, "provider_home_website"))
	assert.False(t, l.Has(ctx, "schema_site_identity"))
	assert.True(t, l.Has(ctx, "provider_singular_home_42_article"))
	assert.True(t, l.Has(ctx, "schema_post_42_full"))
}

func TestInvalidatorStructureChanged(t *testing.T) {
	ctx := context.Background()
	l, err := NewLayered(NewMemoryStore())
	require.NoError(t, err)
	seedInvalidationFixture(t, ctx, l)

	inv := NewInvalidator(l, nil, nil)
	inv.StructureChanged(ctx)

	assert.False(t, l.Has(ctx, "provider_singular_home_42_article"))
	assert.False(t, l.Has(ctx, "schema_site_identity"))
	assert.Equal(t, 0, l.MetadataLen())
}
