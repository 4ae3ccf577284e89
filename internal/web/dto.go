package web

import (
	"github.com/contentkit/contentkit/internal/schema"
)

// ContentTypeSummary is the list-endpoint projection of a content type.
type ContentTypeSummary struct {
	Alias         string `json:"alias"`
	Name          string `json:"name"`
	Icon          string `json:"icon,omitempty"`
	IsElement     bool   `json:"isElement"`
	AllowedAtRoot bool   `json:"allowedAtRoot"`
}

// PropertyDTO is the detail projection of a property definition.
type PropertyDTO struct {
	Alias             string `json:"alias"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	Editor            string `json:"editor"`
	Storage           string `json:"storage"`
	Mandatory         bool   `json:"mandatory"`
	ValidationPattern string `json:"validationPattern,omitempty"`
	SortOrder         int    `json:"sortOrder"`
	DataTypeReference string `json:"dataTypeReference,omitempty"`
}

// PropertyGroupDTO is the detail projection of a property group.
type PropertyGroupDTO struct {
	Alias      string        `json:"alias"`
	Name       string        `json:"name"`
	SortOrder  int           `json:"sortOrder"`
	Properties []PropertyDTO `json:"properties"`
}

// ContentTypeDetail is the full projection of a content type, including
// its groups, composition references and allowed child types.
type ContentTypeDetail struct {
	Alias             string             `json:"alias"`
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	Icon              string             `json:"icon,omitempty"`
	IsElement         bool               `json:"isElement"`
	AllowedAtRoot     bool               `json:"allowedAtRoot"`
	Groups            []PropertyGroupDTO `json:"groups"`
	Compositions      []string           `json:"compositions"`
	AllowedChildTypes []string           `json:"allowedChildTypes"`
	DefaultTemplate   string             `json:"defaultTemplate,omitempty"`
	AllowedTemplates  []string           `json:"allowedTemplates,omitempty"`
}

func toSummary(def *schema.ContentTypeDefinition) ContentTypeSummary {
	return ContentTypeSummary{
		Alias:         def.Alias.String(),
		Name:          def.Name,
		Icon:          def.Icon,
		IsElement:     def.IsElement,
		AllowedAtRoot: def.AllowedAtRoot,
	}
}

func toDetail(def *schema.ContentTypeDefinition) ContentTypeDetail {
	detail := ContentTypeDetail{
		Alias:             def.Alias.String(),
		Name:              def.Name,
		Description:       def.Description,
		Icon:              def.Icon,
		IsElement:         def.IsElement,
		AllowedAtRoot:     def.AllowedAtRoot,
		Groups:            make([]PropertyGroupDTO, 0, len(def.Groups)),
		Compositions:      aliasStrings(def.Compositions),
		AllowedChildTypes: aliasStrings(def.AllowedChildTypes),
		DefaultTemplate:   def.DefaultTemplate.String(),
		AllowedTemplates:  aliasStrings(def.AllowedTemplates),
	}
	for _, g := range def.Groups {
		detail.Groups = append(detail.Groups, toGroupDTO(g))
	}
	return detail
}

func toGroupDTO(g schema.PropertyGroup) PropertyGroupDTO {
	dto := PropertyGroupDTO{
		Alias:      g.Alias.String(),
		Name:       g.Name,
		SortOrder:  g.SortOrder,
		Properties: make([]PropertyDTO, 0, len(g.Properties)),
	}
	for _, p := range g.Properties {
		dto.Properties = append(dto.Properties, PropertyDTO{
			Alias:             p.Alias.String(),
			Name:              p.Name,
			Description:       p.Description,
			Editor:            string(p.Editor),
			Storage:           string(p.Storage),
			Mandatory:         p.Mandatory,
			ValidationPattern: p.ValidationPattern,
			SortOrder:         p.SortOrder,
			DataTypeReference: p.DataTypeReference,
		})
	}
	return dto
}

func aliasStrings(aliases []schema.Alias) []string {
	out := make([]string, 0, len(aliases))
	for _, a := range aliases {
		out = append(out, a.String())
	}
	return out
}
