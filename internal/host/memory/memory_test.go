package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentkit/contentkit/internal/host"
	"github.com/contentkit/contentkit/internal/schema"
)

func testType(alias string) *schema.ContentTypeDefinition {
	return &schema.ContentTypeDefinition{
		Alias: schema.Alias(alias),
		Name:  alias,
		Groups: []schema.PropertyGroup{{
			Alias: "content",
			Name:  "Content",
			Properties: []schema.PropertyDefinition{
				{Alias: schema.Alias(alias + "Field"), Name: "Field", Editor: schema.EditorTextBox},
			},
		}},
	}
}

func TestSaveAssignsIdentity(t *testing.T) {
	h := New()
	svc := h.Services()
	ctx := context.Background()

	def := testType("articlePage")
	require.NoError(t, svc.ContentTypes.Save(ctx, def))

	assert.NotZero(t, def.ID)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", def.Key.String())
}

func TestSaveRejectsDuplicateAlias(t *testing.T) {
	h := New()
	svc := h.Services()
	ctx := context.Background()

	require.NoError(t, svc.ContentTypes.Save(ctx, testType("articlePage")))

	err := svc.ContentTypes.Save(ctx, testType("articlePage"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestSaveRejectsCompositionConflicts(t *testing.T) {
	h := New()
	svc := h.Services()
	ctx := context.Background()

	comp := &schema.ContentTypeDefinition{
		Alias:     "bundle",
		IsElement: true,
		Groups: []schema.PropertyGroup{{
			Alias:      "shared",
			Properties: []schema.PropertyDefinition{{Alias: "title"}},
		}},
	}
	require.NoError(t, svc.ContentTypes.Save(ctx, comp))

	page := &schema.ContentTypeDefinition{
		Alias:        "page",
		Compositions: []schema.Alias{"bundle"},
		Groups: []schema.PropertyGroup{{
			Alias:      "own",
			Properties: []schema.PropertyDefinition{{Alias: "title"}},
		}},
	}
	err := svc.ContentTypes.Save(ctx, page)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestSaveRejectsUnknownComposition(t *testing.T) {
	h := New()
	svc := h.Services()

	page := &schema.ContentTypeDefinition{
		Alias:        "page",
		Compositions: []schema.Alias{"missing"},
	}
	err := svc.ContentTypes.Save(context.Background(), page)
	require.Error(t, err)
	assert.True(t, errors.Is(err, host.ErrNotFound))
}

func TestGetByAliasNotFound(t *testing.T) {
	h := New()
	_, err := h.Services().ContentTypes.GetByAlias(context.Background(), "nope")
	assert.True(t, errors.Is(err, host.ErrNotFound))
}

func TestGetByAliasReturnsCopy(t *testing.T) {
	h := New()
	svc := h.Services()
	ctx := context.Background()

	require.NoError(t, svc.ContentTypes.Save(ctx, testType("articlePage")))

	got, err := svc.ContentTypes.GetByAlias(ctx, "articlePage")
	require.NoError(t, err)
	got.Name = "mutated"
	got.Groups[0].Properties[0].Name = "mutated"

	again, err := svc.ContentTypes.GetByAlias(ctx, "articlePage")
	require.NoError(t, err)
	assert.Equal(t, "articlePage", again.Name)
	assert.Equal(t, "Field", again.Groups[0].Properties[0].Name)
}

func TestListPreservesSaveOrder(t *testing.T) {
	h := New()
	svc := h.Services()
	ctx := context.Background()

	require.NoError(t, svc.ContentTypes.Save(ctx, testType("first")))
	require.NoError(t, svc.ContentTypes.Save(ctx, testType("second")))

	defs, err := svc.ContentTypes.List(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, schema.Alias("first"), defs[0].Alias)
	assert.Equal(t, schema.Alias("second"), defs[1].Alias)
}

func TestContainers(t *testing.T) {
	h := New()
	svc := h.Services()
	ctx := context.Background()

	created, err := svc.ContentTypes.CreateContainer(ctx, host.RootParentID, "Articles")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	listed, err := svc.ContentTypes.ListContainers(ctx, host.RootParentID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	other, err := svc.ContentTypes.ListContainers(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestContentLifecycle(t *testing.T) {
	h := New()
	svc := h.Services()
	ctx := context.Background()

	require.NoError(t, svc.ContentTypes.Save(ctx, testType("articlePage")))

	c, err := svc.Content.Create(ctx, "Welcome", 5, "articlePage")
	require.NoError(t, err)
	c.SetValue("articlePageField", "hello")
	require.NoError(t, svc.Content.Save(ctx, c))
	assert.NotZero(t, c.ID)

	result, err := svc.Content.Publish(ctx, c)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, c.Published)

	found, err := svc.Content.FirstChildOfType(ctx, 5, "articlePage")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)
	assert.True(t, found.Published)

	_, err = svc.Content.FirstChildOfType(ctx, 6, "articlePage")
	assert.True(t, errors.Is(err, host.ErrNotFound))
}

func TestPublishFailureHook(t *testing.T) {
	h := New()
	h.PublishFailure = func(c *schema.ContentInstance) []string {
		return []string{"pageTitle"}
	}
	svc := h.Services()
	ctx := context.Background()

	require.NoError(t, svc.ContentTypes.Save(ctx, testType("articlePage")))
	c, err := svc.Content.Create(ctx, "Welcome", host.RootParentID, "articlePage")
	require.NoError(t, err)
	require.NoError(t, svc.Content.Save(ctx, c))

	result, err := svc.Content.Publish(ctx, c)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []string{"pageTitle"}, result.InvalidProperties)
	assert.False(t, c.Published)
}

func TestScopeCommitAndRollback(t *testing.T) {
	h := New()
	ctx := context.Background()

	// Completed scope: writes survive.
	scope, err := h.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, scope.Services().ContentTypes.Save(ctx, testType("kept")))
	scope.Complete()
	require.NoError(t, scope.Close())

	_, err = h.Services().ContentTypes.GetByAlias(ctx, "kept")
	require.NoError(t, err)

	// Abandoned scope: writes are rolled back.
	scope, err = h.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, scope.Services().ContentTypes.Save(ctx, testType("discarded")))
	require.NoError(t, scope.Close())

	_, err = h.Services().ContentTypes.GetByAlias(ctx, "discarded")
	assert.True(t, errors.Is(err, host.ErrNotFound))

	// The committed artifact is untouched by the rollback.
	_, err = h.Services().ContentTypes.GetByAlias(ctx, "kept")
	require.NoError(t, err)
}
