package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/contentkit/contentkit/internal/host"
	"github.com/contentkit/contentkit/internal/schema"
)

// ErrTemplateServiceMissing signals a configuration error: a template
// operation was requested on a builder constructed without a template
// service. This is programmer misuse and is never recovered automatically.
var ErrTemplateServiceMissing = errors.New("builder: template service not configured, use NewDocumentTypeWithTemplates")

// DocumentTypeBuilder assembles a content-type definition and persists it
// through the host's content-type service. Build is an idempotent upsert:
// when a definition with the same alias already exists, the existing one is
// returned unchanged and nothing is written.
//
// Errors raised while chaining (invalid aliases, template failures) are
// accumulated and surface together when the definition is built.
type DocumentTypeBuilder struct {
	def       schema.ContentTypeDefinition
	template  *schema.TemplateDefinition
	types     host.ContentTypeService
	templates host.TemplateService
	errs      []error
	consumed  bool
}

// NewDocumentType starts a content-type builder backed by the given
// content-type service. Template operations on the result fail with
// ErrTemplateServiceMissing; use NewDocumentTypeWithTemplates when the
// type carries a render template.
func NewDocumentType(types host.ContentTypeService) *DocumentTypeBuilder {
	return &DocumentTypeBuilder{types: types}
}

// NewDocumentTypeWithTemplates starts a content-type builder that can also
// create and update render templates.
func NewDocumentTypeWithTemplates(types host.ContentTypeService, templates host.TemplateService) *DocumentTypeBuilder {
	return &DocumentTypeBuilder{types: types, templates: templates}
}

// WithAlias sets the content-type alias, the global lookup key.
func (b *DocumentTypeBuilder) WithAlias(alias string) *DocumentTypeBuilder {
	b.guard()
	a, err := schema.NewAlias(alias)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.def.Alias = a
	return b
}

// WithName sets the display name.
func (b *DocumentTypeBuilder) WithName(name string) *DocumentTypeBuilder {
	b.guard()
	b.def.Name = name
	return b
}

// WithDescription sets the backoffice description.
func (b *DocumentTypeBuilder) WithDescription(description string) *DocumentTypeBuilder {
	b.guard()
	b.def.Description = description
	return b
}

// WithIcon sets the backoffice tree icon.
func (b *DocumentTypeBuilder) WithIcon(icon string) *DocumentTypeBuilder {
	b.guard()
	b.def.Icon = icon
	return b
}

// AllowAtRoot permits instances directly under the content root. Element
// types remain unplaceable regardless.
func (b *DocumentTypeBuilder) AllowAtRoot() *DocumentTypeBuilder {
	b.guard()
	b.def.AllowedAtRoot = true
	return b
}

// AsElementType marks the definition as a reusable property bundle rather
// than placeable content.
func (b *DocumentTypeBuilder) AsElementType() *DocumentTypeBuilder {
	b.guard()
	b.def.IsElement = true
	return b
}

// InFolder places the definition under a backoffice folder.
func (b *DocumentTypeBuilder) InFolder(folderID int64) *DocumentTypeBuilder {
	b.guard()
	b.def.ParentFolderID = folderID
	return b
}

// AllowChildType permits instances of the given type under instances of
// this one.
func (b *DocumentTypeBuilder) AllowChildType(alias schema.Alias) *DocumentTypeBuilder {
	b.guard()
	b.def.AllowedChildTypes = append(b.def.AllowedChildTypes, alias)
	return b
}

// AddTab builds a property group through an inner TabBuilder and appends
// it. Tabs render in the order they are added.
func (b *DocumentTypeBuilder) AddTab(name string, configure func(*TabBuilder)) *DocumentTypeBuilder {
	b.guard()
	tb := NewTab(name).WithSortOrder(len(b.def.Groups))
	if configure != nil {
		configure(tb)
	}
	group, err := tb.Build()
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.def.Groups = append(b.def.Groups, group)
	return b
}

// AddComposition composes an existing content type into this one. The
// composed type's property groups become part of this type's effective
// schema; alias collisions across compositions surface at save time.
func (b *DocumentTypeBuilder) AddComposition(def *schema.ContentTypeDefinition) *DocumentTypeBuilder {
	b.guard()
	if def == nil {
		b.errs = append(b.errs, fmt.Errorf("composition cannot be nil"))
		return b
	}
	b.def.Compositions = append(b.def.Compositions, def.Alias)
	return b
}

// WithTemplate attaches a render template, creating or updating it through
// the host as needed:
//
//   - absent in the host: create and persist
//   - present with different content: update the stored content
//   - present with identical content: no write
//
// The template becomes the definition's default and only allowed template
// at build time.
func (b *DocumentTypeBuilder) WithTemplate(ctx context.Context, alias, name, content string) *DocumentTypeBuilder {
	b.guard()
	if b.templates == nil {
		b.errs = append(b.errs, ErrTemplateServiceMissing)
		return b
	}

	tpl, err := NewTemplate().WithAlias(alias).WithName(name).WithContent(content).Build()
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}

	existing, err := b.templates.GetByAlias(ctx, tpl.Alias)
	switch {
	case errors.Is(err, host.ErrNotFound):
		if err := b.templates.Save(ctx, &tpl); err != nil {
			b.errs = append(b.errs, fmt.Errorf("creating template %q: %w", tpl.Alias, err))
			return b
		}
		b.template = &tpl
	case err != nil:
		b.errs = append(b.errs, fmt.Errorf("looking up template %q: %w", tpl.Alias, err))
		return b
	case existing.Content != content:
		existing.Content = content
		if err := b.templates.Save(ctx, existing); err != nil {
			b.errs = append(b.errs, fmt.Errorf("updating template %q: %w", tpl.Alias, err))
			return b
		}
		b.template = existing
	default:
		b.template = existing
	}
	return b
}

// WithExistingTemplate attaches a template that must already exist in the
// host. A missing template is an error, not a create.
func (b *DocumentTypeBuilder) WithExistingTemplate(ctx context.Context, alias string) *DocumentTypeBuilder {
	b.guard()
	if b.templates == nil {
		b.errs = append(b.errs, ErrTemplateServiceMissing)
		return b
	}

	a, err := schema.NewAlias(alias)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}

	existing, err := b.templates.GetByAlias(ctx, a)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("template %q: %w", a, err))
		return b
	}
	b.template = existing
	return b
}

// Build finalizes the definition and persists it, consuming the builder.
// If a definition with the same alias already exists it is returned as-is:
// Build never overwrites an existing definition.
func (b *DocumentTypeBuilder) Build(ctx context.Context) (*schema.ContentTypeDefinition, error) {
	b.guard()
	def, err := b.assemble()
	if err != nil {
		return nil, err
	}

	existing, err := b.types.GetByAlias(ctx, def.Alias)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, host.ErrNotFound):
		return nil, fmt.Errorf("looking up content type %q: %w", def.Alias, err)
	}

	if err := b.types.Save(ctx, def); err != nil {
		return nil, fmt.Errorf("saving content type %q: %w", def.Alias, err)
	}
	return def, nil
}

// BuildWithoutSaving finalizes the definition without the existence check
// or the save call, for callers that need to inspect or mutate the result
// before persisting it themselves. Consumes the builder.
func (b *DocumentTypeBuilder) BuildWithoutSaving() (*schema.ContentTypeDefinition, error) {
	b.guard()
	return b.assemble()
}

func (b *DocumentTypeBuilder) assemble() (*schema.ContentTypeDefinition, error) {
	b.consumed = true

	if b.def.Alias.IsZero() {
		b.errs = append(b.errs, fmt.Errorf("content type requires an alias"))
	}

	if len(b.errs) > 0 {
		// errors.Join keeps the individual errors matchable with errors.Is,
		// in particular ErrTemplateServiceMissing.
		return nil, fmt.Errorf("building content type %q: %w", b.def.Alias, errors.Join(b.errs...))
	}

	def := b.def
	if b.template != nil {
		def.DefaultTemplate = b.template.Alias
		def.AllowedTemplates = []schema.Alias{b.template.Alias}
	}
	return &def, nil
}

func (b *DocumentTypeBuilder) guard() {
	if b.consumed {
		panic("builder: DocumentTypeBuilder reused after Build")
	}
}
