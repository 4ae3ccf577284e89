package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentkit/contentkit/internal/schema"
)

func TestTabBuilderConvenienceWrappers(t *testing.T) {
	group, err := NewTab("Everything").
		AddTextBoxProperty("Title", "title", nil).
		AddTextAreaProperty("Summary", "summary", nil).
		AddRichTextProperty("Body", "body", nil).
		AddMediaPickerProperty("Hero", "hero", nil).
		AddContentPickerProperty("Related", "related", nil).
		AddIntegerProperty("Rating", "rating", nil).
		AddBooleanProperty("Featured", "featured", nil).
		AddDateProperty("Published", "published", nil).
		Build()
	require.NoError(t, err)

	// One property per Add call.
	require.Len(t, group.Properties, 8)

	wantKinds := map[schema.Alias]schema.EditorKind{
		"title":     schema.EditorTextBox,
		"summary":   schema.EditorTextArea,
		"body":      schema.EditorRichText,
		"hero":      schema.EditorMediaPicker,
		"related":   schema.EditorContentPicker,
		"rating":    schema.EditorInteger,
		"featured":  schema.EditorBoolean,
		"published": schema.EditorDateTime,
	}

	seen := make(map[schema.Alias]bool)
	for _, p := range group.Properties {
		assert.False(t, seen[p.Alias], "alias %q appears twice", p.Alias)
		seen[p.Alias] = true

		kind, ok := wantKinds[p.Alias]
		require.True(t, ok, "unexpected alias %q", p.Alias)
		assert.Equal(t, kind, p.Editor)
		assert.Equal(t, schema.DefaultStorageFor(kind), p.Storage)
	}
}

func TestTabBuilderDeclarationOrder(t *testing.T) {
	group, err := NewTab("Article").
		AddTextBoxProperty("First", "first", nil).
		AddTextBoxProperty("Second", "second", nil).
		AddTextBoxProperty("Third", "third", nil).
		Build()
	require.NoError(t, err)

	require.Len(t, group.Properties, 3)
	assert.Equal(t, schema.Alias("first"), group.Properties[0].Alias)
	assert.Equal(t, schema.Alias("second"), group.Properties[1].Alias)
	assert.Equal(t, schema.Alias("third"), group.Properties[2].Alias)
}

func TestTabBuilderExplicitSortOrderWins(t *testing.T) {
	group, err := NewTab("Article").
		AddTextBoxProperty("Declared First", "declaredFirst", func(p *PropertyBuilder) {
			p.WithSortOrder(10)
		}).
		AddTextBoxProperty("Declared Second", "declaredSecond", nil).
		Build()
	require.NoError(t, err)

	require.Len(t, group.Properties, 2)
	// declaredSecond keeps its declaration index (1), which sorts ahead of
	// the explicit 10.
	assert.Equal(t, schema.Alias("declaredSecond"), group.Properties[0].Alias)
	assert.Equal(t, schema.Alias("declaredFirst"), group.Properties[1].Alias)
}

func TestTabBuilderDerivesGroupAlias(t *testing.T) {
	group, err := NewTab("Search Engine Optimization").Build()
	require.NoError(t, err)
	assert.Equal(t, schema.Alias("searchEngineOptimization"), group.Alias)
	assert.Equal(t, "Search Engine Optimization", group.Name)
}

func TestTabBuilderPropagatesPropertyErrors(t *testing.T) {
	_, err := NewTab("Broken").
		AddTextBoxProperty("Bad", "bad alias", nil).
		AddTextBoxProperty("Good", "good", nil).
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad alias")
}

func TestTabBuilderConsumedGuard(t *testing.T) {
	tb := NewTab("Once")
	_, err := tb.Build()
	require.NoError(t, err)
	assert.Panics(t, func() { tb.AddTextBoxProperty("X", "x", nil) })
}
