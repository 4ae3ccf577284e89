package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/contentkit/contentkit/internal/host"
	"github.com/contentkit/contentkit/internal/host/memory"
	"github.com/contentkit/contentkit/internal/schema"
)

func provisionDefaults(t *testing.T, h *memory.Host) {
	t.Helper()
	o := NewOrchestrator(h, zap.NewNop())
	o.Register(DefaultHandlers()...)
	require.NoError(t, o.Run(context.Background()))
}

func TestDefaultHandlersProvisionFullSchema(t *testing.T) {
	h := memory.New()
	provisionDefaults(t, h)

	svc := h.Services()
	ctx := context.Background()

	defs, err := svc.ContentTypes.List(ctx)
	require.NoError(t, err)
	assert.Len(t, defs, 4)

	comp, err := svc.ContentTypes.GetByAlias(ctx, ContentPropertiesAlias)
	require.NoError(t, err)
	assert.True(t, comp.IsElement)
	assert.False(t, comp.PlaceableAtRoot())

	article, err := svc.ContentTypes.GetByAlias(ctx, ArticlePageAlias)
	require.NoError(t, err)
	assert.True(t, article.HasComposition(ContentPropertiesAlias))
	assert.True(t, article.HasComposition(FooterPropertiesAlias))
	assert.Equal(t, schema.Alias(ArticlePageAlias), article.DefaultTemplate)

	// Composed properties are reachable through the effective schema.
	groups, err := article.EffectiveGroups(func(alias schema.Alias) (*schema.ContentTypeDefinition, error) {
		return svc.ContentTypes.GetByAlias(ctx, alias)
	})
	require.NoError(t, err)
	seen := map[schema.Alias]bool{}
	for _, g := range groups {
		for _, p := range g.Properties {
			seen[p.Alias] = true
		}
	}
	assert.True(t, seen["mainContent"], "composed property missing from effective schema")
	assert.True(t, seen["footerText"], "composed property missing from effective schema")
	assert.True(t, seen["pageTitle"], "own property missing from effective schema")

	landing, err := svc.ContentTypes.GetByAlias(ctx, LandingPageAlias)
	require.NoError(t, err)
	assert.True(t, landing.PlaceableAtRoot())
	assert.Contains(t, landing.AllowedChildTypes, schema.Alias(ArticlePageAlias))

	for _, alias := range []schema.Alias{ArticlePageAlias, LandingPageAlias} {
		_, err := svc.Templates.GetByAlias(ctx, alias)
		assert.NoError(t, err, "template %q not provisioned", alias)
	}
}

func TestDefaultHandlersSeedWelcomeArticle(t *testing.T) {
	h := memory.New()
	provisionDefaults(t, h)

	svc := h.Services()
	ctx := context.Background()

	folders, err := svc.ContentTypes.ListContainers(ctx, host.RootParentID)
	require.NoError(t, err)

	var articlesID int64
	for _, f := range folders {
		if f.Name == ArticlesFolderName {
			articlesID = f.ID
		}
	}
	require.NotZero(t, articlesID, "articles folder not created")

	article, err := svc.Content.FirstChildOfType(ctx, articlesID, ArticlePageAlias)
	require.NoError(t, err)
	assert.Equal(t, "Welcome", article.Name)
	assert.True(t, article.Published)
	assert.Equal(t, "Welcome", article.Values["pageTitle"])
	assert.NotEmpty(t, article.Values["mainContent"])
}

func TestDefaultHandlersAreIdempotent(t *testing.T) {
	h := memory.New()
	provisionDefaults(t, h)
	after := h.Stats()

	provisionDefaults(t, h)

	assert.Equal(t, after, h.Stats(), "second run must not issue further writes")

	defs, err := h.Services().ContentTypes.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, defs, 4)
}

func TestArticlePageFailsWithoutCompositions(t *testing.T) {
	h := memory.New()
	scope := &Scope{services: h.Services(), logger: zap.NewNop()}

	result := ArticlePageHandler{}.Run(context.Background(), scope)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.True(t, errors.Is(result.Err, ErrMissingDependency))
}

func TestWelcomeArticleToleratesPublishFailure(t *testing.T) {
	h := memory.New()
	h.PublishFailure = func(c *schema.ContentInstance) []string {
		return []string{"heroImage"}
	}
	provisionDefaults(t, h)

	svc := h.Services()
	ctx := context.Background()

	folder, err := GetOrCreateFolder(ctx, svc.ContentTypes, ArticlesFolderName, host.RootParentID)
	require.NoError(t, err)

	article, err := svc.Content.FirstChildOfType(ctx, folder.ID, ArticlePageAlias)
	require.NoError(t, err)
	assert.False(t, article.Published, "saved-but-unpublished is the expected terminal state")
}
