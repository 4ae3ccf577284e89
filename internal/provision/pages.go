package provision

import (
	"context"

	"github.com/contentkit/contentkit/internal/builder"
	"github.com/contentkit/contentkit/internal/host"
	"github.com/contentkit/contentkit/internal/schema"
)

// PageTypesFolderName is the backoffice folder grouping the page content
// types provisioned here.
const PageTypesFolderName = "Page Types"

const articleTemplateMarkup = `<!DOCTYPE html>
<html>
<head>
    <title>{{ .Values.metaTitle }}</title>
    <meta name="description" content="{{ .Values.metaDescription }}">
</head>
<body>
    <article>
        <h1>{{ .Values.pageTitle }}</h1>
        <time datetime="{{ .Values.publishDate }}">{{ .Values.publishDate }}</time>
        {{ .Values.mainContent }}
    </article>
    <footer>{{ .Values.footerText }}</footer>
</body>
</html>
`

const landingTemplateMarkup = `<!DOCTYPE html>
<html>
<head>
    <title>{{ .Values.pageTitle }}</title>
</head>
<body>
    <main>
        <h1>{{ .Values.pageTitle }}</h1>
        {{ .Values.mainContent }}
    </main>
</body>
</html>
`

// ArticlePageHandler provisions the article page content type. It composes
// the content and footer property bundles and carries a render template,
// so both composition handlers must have run first.
type ArticlePageHandler struct{}

func (ArticlePageHandler) Alias() string { return ArticlePageAlias }

func (ArticlePageHandler) Requires() []string {
	return []string{ContentPropertiesAlias, FooterPropertiesAlias}
}

func (h ArticlePageHandler) Run(ctx context.Context, scope *Scope) Result {
	svc := scope.Services()

	found, err := exists(ctx, svc.ContentTypes, schema.Alias(ArticlePageAlias))
	if err != nil {
		return Failed(err)
	}
	if found {
		return AlreadyExists()
	}

	contentProps, err := requireContentType(ctx, svc.ContentTypes, schema.Alias(ContentPropertiesAlias))
	if err != nil {
		return Failed(err)
	}
	footerProps, err := requireContentType(ctx, svc.ContentTypes, schema.Alias(FooterPropertiesAlias))
	if err != nil {
		return Failed(err)
	}

	folder, err := GetOrCreateFolder(ctx, svc.ContentTypes, PageTypesFolderName, host.RootParentID)
	if err != nil {
		return Failed(err)
	}

	_, err = builder.NewDocumentTypeWithTemplates(svc.ContentTypes, svc.Templates).
		WithAlias(ArticlePageAlias).
		WithName("Article Page").
		WithDescription("A long-form article with shared content and footer fields.").
		WithIcon("icon-article").
		InFolder(folder.ID).
		AddComposition(contentProps).
		AddComposition(footerProps).
		AddTab("Article", func(t *builder.TabBuilder) {
			t.AddTextBoxProperty("Page Title", "pageTitle", func(p *builder.PropertyBuilder) {
				p.Mandatory()
			})
			t.AddDateProperty("Publish Date", "publishDate", nil)
			t.AddMediaPickerProperty("Hero Image", "heroImage", nil)
		}).
		AddTab("SEO", func(t *builder.TabBuilder) {
			t.AddTextBoxProperty("Meta Title", "metaTitle", nil)
			t.AddTextAreaProperty("Meta Description", "metaDescription", func(p *builder.PropertyBuilder) {
				p.WithValidation(`^.{0,160}$`)
			})
		}).
		WithTemplate(ctx, ArticlePageAlias, "Article Page", articleTemplateMarkup).
		Build(ctx)
	if err != nil {
		return Failed(err)
	}
	return Created()
}

// LandingPageHandler provisions the root landing page content type. It
// composes the content properties bundle, allows article pages beneath it
// and is the only type placeable at the content root.
type LandingPageHandler struct{}

func (LandingPageHandler) Alias() string { return LandingPageAlias }

func (LandingPageHandler) Requires() []string {
	return []string{ContentPropertiesAlias, ArticlePageAlias}
}

func (h LandingPageHandler) Run(ctx context.Context, scope *Scope) Result {
	svc := scope.Services()

	found, err := exists(ctx, svc.ContentTypes, schema.Alias(LandingPageAlias))
	if err != nil {
		return Failed(err)
	}
	if found {
		return AlreadyExists()
	}

	contentProps, err := requireContentType(ctx, svc.ContentTypes, schema.Alias(ContentPropertiesAlias))
	if err != nil {
		return Failed(err)
	}
	if _, err := requireContentType(ctx, svc.ContentTypes, schema.Alias(ArticlePageAlias)); err != nil {
		return Failed(err)
	}

	folder, err := GetOrCreateFolder(ctx, svc.ContentTypes, PageTypesFolderName, host.RootParentID)
	if err != nil {
		return Failed(err)
	}

	_, err = builder.NewDocumentTypeWithTemplates(svc.ContentTypes, svc.Templates).
		WithAlias(LandingPageAlias).
		WithName("Landing Page").
		WithDescription("The site entry page, placeable at the content root.").
		WithIcon("icon-home").
		AllowAtRoot().
		InFolder(folder.ID).
		AllowChildType(schema.Alias(ArticlePageAlias)).
		AddComposition(contentProps).
		AddTab("Page", func(t *builder.TabBuilder) {
			t.AddTextBoxProperty("Page Title", "pageTitle", func(p *builder.PropertyBuilder) {
				p.Mandatory()
			})
			t.AddBooleanProperty("Show In Navigation", "showInNavigation", nil)
		}).
		WithTemplate(ctx, LandingPageAlias, "Landing Page", landingTemplateMarkup).
		Build(ctx)
	if err != nil {
		return Failed(err)
	}
	return Created()
}
