package provision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentkit/contentkit/internal/host"
	"github.com/contentkit/contentkit/internal/host/memory"
)

func TestGetOrCreateFolder(t *testing.T) {
	h := memory.New()
	svc := h.Services().ContentTypes
	ctx := context.Background()

	first, err := GetOrCreateFolder(ctx, svc, "Page Types", host.RootParentID)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	second, err := GetOrCreateFolder(ctx, svc, "Page Types", host.RootParentID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, h.Stats().ContainerCreates)
}

func TestGetOrCreateFolderScopedToParent(t *testing.T) {
	h := memory.New()
	svc := h.Services().ContentTypes
	ctx := context.Background()

	root, err := GetOrCreateFolder(ctx, svc, "Articles", host.RootParentID)
	require.NoError(t, err)

	// The same name under a different parent is a different folder.
	nested, err := GetOrCreateFolder(ctx, svc, "Articles", root.ID)
	require.NoError(t, err)
	assert.NotEqual(t, root.ID, nested.ID)
	assert.Equal(t, root.ID, nested.ParentID)
	assert.Equal(t, 2, h.Stats().ContainerCreates)
}
