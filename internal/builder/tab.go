package builder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/contentkit/contentkit/internal/schema"
)

// TabBuilder assembles a property group. Properties render in declaration
// order unless one or more carry an explicit sort order, in which case the
// group is sorted by it (declaration order breaks ties).
//
// Duplicate property aliases within a group are not checked here; the host
// rejects them at save time.
type TabBuilder struct {
	name       string
	sortOrder  int
	properties []*PropertyBuilder
	errs       []error
	consumed   bool
}

// NewTab starts a property group with the given display name. The group
// alias is derived from the name.
func NewTab(name string) *TabBuilder {
	return &TabBuilder{name: name}
}

// WithSortOrder pins the group's position among its siblings.
func (b *TabBuilder) WithSortOrder(order int) *TabBuilder {
	b.guard()
	b.sortOrder = order
	return b
}

// AddProperty appends a property with the given editor kind. The configure
// callback, when non-nil, receives the inner PropertyBuilder for chained
// refinement before the property is finalized.
func (b *TabBuilder) AddProperty(name, alias string, kind schema.EditorKind, configure func(*PropertyBuilder)) *TabBuilder {
	b.guard()
	pb := NewProperty(name, alias, kind)
	if configure != nil {
		configure(pb)
	}
	b.properties = append(b.properties, pb)
	return b
}

// AddTextBoxProperty appends a single-line text property.
func (b *TabBuilder) AddTextBoxProperty(name, alias string, configure func(*PropertyBuilder)) *TabBuilder {
	return b.AddProperty(name, alias, schema.EditorTextBox, configure)
}

// AddTextAreaProperty appends a multi-line plain-text property.
func (b *TabBuilder) AddTextAreaProperty(name, alias string, configure func(*PropertyBuilder)) *TabBuilder {
	return b.AddProperty(name, alias, schema.EditorTextArea, configure)
}

// AddRichTextProperty appends a rich-text (HTML) property.
func (b *TabBuilder) AddRichTextProperty(name, alias string, configure func(*PropertyBuilder)) *TabBuilder {
	return b.AddProperty(name, alias, schema.EditorRichText, configure)
}

// AddMediaPickerProperty appends a media reference property.
func (b *TabBuilder) AddMediaPickerProperty(name, alias string, configure func(*PropertyBuilder)) *TabBuilder {
	return b.AddProperty(name, alias, schema.EditorMediaPicker, configure)
}

// AddContentPickerProperty appends a content reference property.
func (b *TabBuilder) AddContentPickerProperty(name, alias string, configure func(*PropertyBuilder)) *TabBuilder {
	return b.AddProperty(name, alias, schema.EditorContentPicker, configure)
}

// AddIntegerProperty appends a numeric property.
func (b *TabBuilder) AddIntegerProperty(name, alias string, configure func(*PropertyBuilder)) *TabBuilder {
	return b.AddProperty(name, alias, schema.EditorInteger, configure)
}

// AddBooleanProperty appends a true/false toggle property.
func (b *TabBuilder) AddBooleanProperty(name, alias string, configure func(*PropertyBuilder)) *TabBuilder {
	return b.AddProperty(name, alias, schema.EditorBoolean, configure)
}

// AddDateProperty appends a date/time property.
func (b *TabBuilder) AddDateProperty(name, alias string, configure func(*PropertyBuilder)) *TabBuilder {
	return b.AddProperty(name, alias, schema.EditorDateTime, configure)
}

// Build finalizes the property group and consumes the builder.
func (b *TabBuilder) Build() (schema.PropertyGroup, error) {
	b.guard()
	b.consumed = true

	alias, err := schema.DeriveAlias(b.name)
	if err != nil {
		return schema.PropertyGroup{}, fmt.Errorf("tab %q: %w", b.name, err)
	}

	group := schema.PropertyGroup{
		Alias:     alias,
		Name:      b.name,
		SortOrder: b.sortOrder,
	}

	anyExplicit := false
	for i, pb := range b.properties {
		prop, err := pb.Build()
		if err != nil {
			b.errs = append(b.errs, err)
			continue
		}
		if pb.explicitOrder {
			anyExplicit = true
		} else {
			prop.SortOrder = i
		}
		group.Properties = append(group.Properties, prop)
	}

	if len(b.errs) > 0 {
		var msgs []string
		for _, err := range b.errs {
			msgs = append(msgs, err.Error())
		}
		return schema.PropertyGroup{}, fmt.Errorf("tab %q failed with %d error(s):\n%s",
			b.name, len(b.errs), strings.Join(msgs, "\n"))
	}

	if anyExplicit {
		sort.SliceStable(group.Properties, func(i, j int) bool {
			return group.Properties[i].SortOrder < group.Properties[j].SortOrder
		})
	}

	return group, nil
}

func (b *TabBuilder) guard() {
	if b.consumed {
		panic("builder: TabBuilder reused after Build")
	}
}
