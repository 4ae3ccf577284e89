// Package schema defines the content-type definition entities assembled by
// the builder layer and persisted through the host services. Entities are
// plain data: identity (numeric id, GUID key) is assigned by the host at
// save time, after which the in-memory value is stale.
package schema

import (
	"fmt"

	"github.com/google/uuid"
)

// ContainerAlias is the reserved alias hosts use for content containers
// (folders). Containers organize the content tree and carry no properties.
const ContainerAlias Alias = "folder"

// PropertyDefinition describes a single editable field on a content type.
type PropertyDefinition struct {
	Alias             Alias          `json:"alias"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Editor            EditorKind     `json:"editor"`
	Storage           StorageType    `json:"storage"`
	Mandatory         bool           `json:"mandatory"`
	ValidationPattern string         `json:"validationPattern,omitempty"`
	SortOrder         int            `json:"sortOrder"`
	DataTypeReference string         `json:"dataTypeReference,omitempty"`
	LabelPlacement    LabelPlacement `json:"labelPlacement,omitempty"`
}

// PropertyGroup is a named, ordered collection of properties, rendered as a
// tab in the backoffice. Property aliases are unique within a group.
type PropertyGroup struct {
	Alias      Alias                `json:"alias"`
	Name       string               `json:"name"`
	SortOrder  int                  `json:"sortOrder"`
	Properties []PropertyDefinition `json:"properties"`
}

// Property returns the property with the given alias, or nil.
func (g *PropertyGroup) Property(alias Alias) *PropertyDefinition {
	for i := range g.Properties {
		if g.Properties[i].Alias == alias {
			return &g.Properties[i]
		}
	}
	return nil
}

// ContentTypeDefinition describes a document type: its identity, placement
// rules, property groups, compositions and template bindings.
type ContentTypeDefinition struct {
	ID          int64     `json:"id"`
	Key         uuid.UUID `json:"key"`
	Alias       Alias     `json:"alias"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`

	// AllowedAtRoot permits instances directly under the content root.
	// Element types are never placeable regardless of this flag.
	AllowedAtRoot bool `json:"allowedAtRoot"`

	// IsElement marks a reusable property bundle that cannot be placed as
	// a content node in its own right.
	IsElement bool `json:"isElement"`

	// ParentFolderID places the definition under a backoffice folder.
	// Zero means the definition root.
	ParentFolderID int64 `json:"parentFolderId,omitempty"`

	Groups            []PropertyGroup `json:"groups"`
	Compositions      []Alias         `json:"compositions,omitempty"`
	AllowedChildTypes []Alias         `json:"allowedChildTypes,omitempty"`

	DefaultTemplate  Alias   `json:"defaultTemplate,omitempty"`
	AllowedTemplates []Alias `json:"allowedTemplates,omitempty"`
}

// PlaceableAtRoot reports whether instances of this type may be created
// directly under the content root. Element types are reusable fragments and
// are never placeable, whatever AllowedAtRoot says.
func (t *ContentTypeDefinition) PlaceableAtRoot() bool {
	return t.AllowedAtRoot && !t.IsElement
}

// HasComposition reports whether the type composes the given alias.
func (t *ContentTypeDefinition) HasComposition(alias Alias) bool {
	for _, c := range t.Compositions {
		if c == alias {
			return true
		}
	}
	return false
}

// Group returns the owned property group with the given alias, or nil.
// Composed groups are not considered; use EffectiveGroups for the union.
func (t *ContentTypeDefinition) Group(alias Alias) *PropertyGroup {
	for i := range t.Groups {
		if t.Groups[i].Alias == alias {
			return &t.Groups[i]
		}
	}
	return nil
}

// Resolver looks up a content-type definition by alias, typically backed by
// the host's content-type service.
type Resolver func(alias Alias) (*ContentTypeDefinition, error)

// EffectiveGroups returns the union of the type's own property groups and
// the groups contributed by every composition, resolved through the given
// resolver. A property alias appearing in more than one contributing type
// is a conflict and returns an error; the host cannot store two values
// under one alias.
func (t *ContentTypeDefinition) EffectiveGroups(resolve Resolver) ([]PropertyGroup, error) {
	seen := make(map[Alias]Alias) // property alias -> owning type alias
	var groups []PropertyGroup

	collect := func(owner Alias, from []PropertyGroup) error {
		for _, g := range from {
			for _, p := range g.Properties {
				if prev, ok := seen[p.Alias]; ok {
					return fmt.Errorf("property alias %q defined by both %q and %q", p.Alias, prev, owner)
				}
				seen[p.Alias] = owner
			}
			groups = append(groups, g)
		}
		return nil
	}

	for _, comp := range t.Compositions {
		def, err := resolve(comp)
		if err != nil {
			return nil, fmt.Errorf("resolving composition %q: %w", comp, err)
		}
		if err := collect(def.Alias, def.Groups); err != nil {
			return nil, err
		}
	}

	if err := collect(t.Alias, t.Groups); err != nil {
		return nil, err
	}

	return groups, nil
}

// ValidateGroups checks that property aliases are unique within each group
// and across the type's own groups. Cross-composition conflicts are only
// detectable with a resolver; see EffectiveGroups.
func (t *ContentTypeDefinition) ValidateGroups() error {
	seen := make(map[Alias]struct{})
	for _, g := range t.Groups {
		for _, p := range g.Properties {
			if _, ok := seen[p.Alias]; ok {
				return fmt.Errorf("duplicate property alias %q in content type %q", p.Alias, t.Alias)
			}
			seen[p.Alias] = struct{}{}
		}
	}
	return nil
}

// TemplateDefinition describes a render template. Master linkage is by
// alias only; existence and cycle checks are the host's concern.
type TemplateDefinition struct {
	ID          int64  `json:"id"`
	Alias       Alias  `json:"alias"`
	Name        string `json:"name"`
	Content     string `json:"content"`
	MasterAlias Alias  `json:"masterAlias,omitempty"`
}

// ContentInstance is a persisted instance of a content type. Provisioning
// handlers create these as seed data; the host owns them after save.
type ContentInstance struct {
	ID        int64          `json:"id"`
	Key       uuid.UUID      `json:"key"`
	Name      string         `json:"name"`
	ParentID  int64          `json:"parentId"`
	TypeAlias Alias          `json:"typeAlias"`
	Values    map[string]any `json:"values"`
	Published bool           `json:"published"`
}

// SetValue assigns a property value by alias, allocating the value map on
// first use.
func (c *ContentInstance) SetValue(alias Alias, value any) {
	if c.Values == nil {
		c.Values = make(map[string]any)
	}
	c.Values[alias.String()] = value
}

// Value returns the property value stored under the alias.
func (c *ContentInstance) Value(alias Alias) (any, bool) {
	v, ok := c.Values[alias.String()]
	return v, ok
}
