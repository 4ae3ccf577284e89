// Package builder provides the fluent construction layer for content-type
// schemas. Builders assemble definitions in memory and hand them to the
// host exactly once; they are single-use and not safe for concurrent use.
// Reusing a builder after Build is a programming error and panics.
package builder

import (
	"fmt"

	"github.com/contentkit/contentkit/internal/schema"
)

// PropertyBuilder assembles a single property definition. Construction
// errors (an invalid alias, for example) are accumulated and surface when
// the property is built, so chains stay uninterrupted.
type PropertyBuilder struct {
	def           schema.PropertyDefinition
	explicitOrder bool
	err           error
	consumed      bool
}

// NewProperty starts a property with the given display name, alias and
// editor kind. Storage defaults to the conventional pairing for the editor.
func NewProperty(name, alias string, kind schema.EditorKind) *PropertyBuilder {
	b := &PropertyBuilder{}
	a, err := schema.NewAlias(alias)
	if err != nil {
		b.err = fmt.Errorf("property %q: %w", name, err)
	}
	b.def = schema.PropertyDefinition{
		Alias:   a,
		Name:    name,
		Editor:  kind,
		Storage: schema.DefaultStorageFor(kind),
	}
	return b
}

// WithDescription sets the help text shown under the property label.
func (b *PropertyBuilder) WithDescription(description string) *PropertyBuilder {
	b.guard()
	b.def.Description = description
	return b
}

// Mandatory marks the property as required at save time.
func (b *PropertyBuilder) Mandatory() *PropertyBuilder {
	b.guard()
	b.def.Mandatory = true
	return b
}

// WithStorage overrides the storage type paired with the editor.
func (b *PropertyBuilder) WithStorage(storage schema.StorageType) *PropertyBuilder {
	b.guard()
	b.def.Storage = storage
	return b
}

// WithSortOrder pins the property's position within its group, overriding
// declaration order.
func (b *PropertyBuilder) WithSortOrder(order int) *PropertyBuilder {
	b.guard()
	b.def.SortOrder = order
	b.explicitOrder = true
	return b
}

// WithValidation sets a regular-expression validation pattern. The pattern
// is not compiled here; the host applies it at edit time.
func (b *PropertyBuilder) WithValidation(pattern string) *PropertyBuilder {
	b.guard()
	b.def.ValidationPattern = pattern
	return b
}

// WithDataType points the property at an externally managed data type.
func (b *PropertyBuilder) WithDataType(reference string) *PropertyBuilder {
	b.guard()
	b.def.DataTypeReference = reference
	return b
}

// WithLabelPlacement controls where the property label renders.
func (b *PropertyBuilder) WithLabelPlacement(placement schema.LabelPlacement) *PropertyBuilder {
	b.guard()
	b.def.LabelPlacement = placement
	return b
}

// Build finalizes the property definition and consumes the builder.
func (b *PropertyBuilder) Build() (schema.PropertyDefinition, error) {
	b.guard()
	b.consumed = true
	if b.err != nil {
		return schema.PropertyDefinition{}, b.err
	}
	return b.def, nil
}

func (b *PropertyBuilder) guard() {
	if b.consumed {
		panic("builder: PropertyBuilder reused after Build")
	}
}
