package provision

import (
	"context"

	"github.com/contentkit/contentkit/internal/builder"
	"github.com/contentkit/contentkit/internal/schema"
)

// Aliases of the artifacts the built-in handlers provide.
const (
	ContentPropertiesAlias = "contentProperties"
	FooterPropertiesAlias  = "footerProperties"
	ArticlePageAlias       = "articlePage"
	LandingPageAlias       = "landingPage"
	WelcomeArticleAlias    = "welcomeArticle"
)

// ContentPropertiesHandler provisions the shared "content properties"
// composition: an element type bundling the main body fields every page
// type composes.
type ContentPropertiesHandler struct{}

func (ContentPropertiesHandler) Alias() string { return ContentPropertiesAlias }

func (ContentPropertiesHandler) Requires() []string { return nil }

func (h ContentPropertiesHandler) Run(ctx context.Context, scope *Scope) Result {
	svc := scope.Services()

	found, err := exists(ctx, svc.ContentTypes, schema.Alias(ContentPropertiesAlias))
	if err != nil {
		return Failed(err)
	}
	if found {
		return AlreadyExists()
	}

	_, err = builder.NewDocumentType(svc.ContentTypes).
		WithAlias(ContentPropertiesAlias).
		WithName("Content Properties").
		WithDescription("Shared body content fields composed into page types.").
		WithIcon("icon-text").
		AsElementType().
		AddTab("Content", func(t *builder.TabBuilder) {
			t.AddRichTextProperty("Main Content", "mainContent", func(p *builder.PropertyBuilder) {
				p.Mandatory().WithDescription("The primary body of the page.")
			})
			t.AddTextAreaProperty("Summary", "summary", func(p *builder.PropertyBuilder) {
				p.WithDescription("Short teaser shown in listings.")
			})
		}).
		Build(ctx)
	if err != nil {
		return Failed(err)
	}
	return Created()
}

// FooterPropertiesHandler provisions the shared "footer properties"
// composition used by page types that render a site footer.
type FooterPropertiesHandler struct{}

func (FooterPropertiesHandler) Alias() string { return FooterPropertiesAlias }

func (FooterPropertiesHandler) Requires() []string { return nil }

func (h FooterPropertiesHandler) Run(ctx context.Context, scope *Scope) Result {
	svc := scope.Services()

	found, err := exists(ctx, svc.ContentTypes, schema.Alias(FooterPropertiesAlias))
	if err != nil {
		return Failed(err)
	}
	if found {
		return AlreadyExists()
	}

	_, err = builder.NewDocumentType(svc.ContentTypes).
		WithAlias(FooterPropertiesAlias).
		WithName("Footer Properties").
		WithDescription("Shared footer fields composed into page types.").
		WithIcon("icon-paper-plane").
		AsElementType().
		AddTab("Footer", func(t *builder.TabBuilder) {
			t.AddTextBoxProperty("Footer Text", "footerText", nil)
			t.AddContentPickerProperty("Footer Links", "footerLinks", func(p *builder.PropertyBuilder) {
				p.WithDescription("Pages linked from the footer navigation.")
			})
			t.AddIntegerProperty("Copyright Year", "copyrightYear", nil)
		}).
		Build(ctx)
	if err != nil {
		return Failed(err)
	}
	return Created()
}
