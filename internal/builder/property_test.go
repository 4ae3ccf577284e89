package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentkit/contentkit/internal/schema"
)

func TestPropertyBuilderDefaults(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		alias       string
		kind        schema.EditorKind
		wantStorage schema.StorageType
	}{
		{name: "text box stores text", displayName: "Page Title", alias: "pageTitle", kind: schema.EditorTextBox, wantStorage: schema.StorageText},
		{name: "rich text stores long text", displayName: "Main Content", alias: "mainContent", kind: schema.EditorRichText, wantStorage: schema.StorageLongText},
		{name: "date stores date", displayName: "Publish Date", alias: "publishDate", kind: schema.EditorDateTime, wantStorage: schema.StorageDate},
		{name: "boolean stores integer", displayName: "Visible", alias: "visible", kind: schema.EditorBoolean, wantStorage: schema.StorageInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, err := NewProperty(tt.displayName, tt.alias, tt.kind).Build()
			require.NoError(t, err)

			assert.Equal(t, tt.displayName, prop.Name)
			assert.Equal(t, schema.Alias(tt.alias), prop.Alias)
			assert.Equal(t, tt.kind, prop.Editor)
			assert.Equal(t, tt.wantStorage, prop.Storage)
			assert.False(t, prop.Mandatory)
		})
	}
}

func TestPropertyBuilderChainedSetters(t *testing.T) {
	prop, err := NewProperty("Meta Description", "metaDescription", schema.EditorTextArea).
		WithDescription("Shown in search results.").
		Mandatory().
		WithStorage(schema.StorageText).
		WithSortOrder(7).
		WithValidation(`^.{0,160}$`).
		WithDataType("seo.metaDescription").
		WithLabelPlacement(schema.LabelTop).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "Shown in search results.", prop.Description)
	assert.True(t, prop.Mandatory)
	assert.Equal(t, schema.StorageText, prop.Storage)
	assert.Equal(t, 7, prop.SortOrder)
	assert.Equal(t, `^.{0,160}$`, prop.ValidationPattern)
	assert.Equal(t, "seo.metaDescription", prop.DataTypeReference)
	assert.Equal(t, schema.LabelTop, prop.LabelPlacement)
}

func TestPropertyBuilderInvalidAlias(t *testing.T) {
	_, err := NewProperty("Bad", "not valid", schema.EditorTextBox).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid")
}

func TestPropertyBuilderConsumedGuard(t *testing.T) {
	pb := NewProperty("Title", "title", schema.EditorTextBox)
	_, err := pb.Build()
	require.NoError(t, err)

	assert.Panics(t, func() { pb.Mandatory() })
	assert.Panics(t, func() { pb.Build() })
}
