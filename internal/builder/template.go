package builder

import (
	"fmt"

	"github.com/contentkit/contentkit/internal/schema"
)

// TemplateBuilder assembles a render template. Nothing is mandatory at
// construction; all fields are chainable. The master linkage is an alias
// string only — whether the master exists, or whether a cycle forms, is
// checked by the host, not here.
type TemplateBuilder struct {
	def      schema.TemplateDefinition
	err      error
	consumed bool
}

// NewTemplate starts an empty template builder.
func NewTemplate() *TemplateBuilder {
	return &TemplateBuilder{}
}

// WithAlias sets the template alias.
func (b *TemplateBuilder) WithAlias(alias string) *TemplateBuilder {
	b.guard()
	a, err := schema.NewAlias(alias)
	if err != nil {
		b.err = fmt.Errorf("template: %w", err)
		return b
	}
	b.def.Alias = a
	return b
}

// WithName sets the template display name.
func (b *TemplateBuilder) WithName(name string) *TemplateBuilder {
	b.guard()
	b.def.Name = name
	return b
}

// WithContent sets the template body markup.
func (b *TemplateBuilder) WithContent(content string) *TemplateBuilder {
	b.guard()
	b.def.Content = content
	return b
}

// WithMaster links the template to a master/layout template by alias.
func (b *TemplateBuilder) WithMaster(alias string) *TemplateBuilder {
	b.guard()
	a, err := schema.NewAlias(alias)
	if err != nil {
		b.err = fmt.Errorf("template master: %w", err)
		return b
	}
	b.def.MasterAlias = a
	return b
}

// Build finalizes the template definition and consumes the builder.
func (b *TemplateBuilder) Build() (schema.TemplateDefinition, error) {
	b.guard()
	b.consumed = true
	if b.err != nil {
		return schema.TemplateDefinition{}, b.err
	}
	return b.def, nil
}

func (b *TemplateBuilder) guard() {
	if b.consumed {
		panic("builder: TemplateBuilder reused after Build")
	}
}
