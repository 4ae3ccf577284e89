package provision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/contentkit/contentkit/internal/host"
	"github.com/contentkit/contentkit/internal/schema"
)

// ArticlesFolderName is the content folder the seed article lives under.
const ArticlesFolderName = "Articles"

// WelcomeArticleHandler provisions a seed article instance once the
// article page type exists. A publish failure is a warning, not an error:
// saved-but-unpublished is an accepted terminal state.
type WelcomeArticleHandler struct{}

func (WelcomeArticleHandler) Alias() string { return WelcomeArticleAlias }

func (WelcomeArticleHandler) Requires() []string {
	return []string{ArticlePageAlias}
}

func (h WelcomeArticleHandler) Run(ctx context.Context, scope *Scope) Result {
	svc := scope.Services()

	if _, err := requireContentType(ctx, svc.ContentTypes, schema.Alias(ArticlePageAlias)); err != nil {
		return Failed(err)
	}

	folder, err := GetOrCreateFolder(ctx, svc.ContentTypes, ArticlesFolderName, host.RootParentID)
	if err != nil {
		return Failed(err)
	}

	_, err = svc.Content.FirstChildOfType(ctx, folder.ID, schema.Alias(ArticlePageAlias))
	switch {
	case err == nil:
		return AlreadyExists()
	case !errors.Is(err, host.ErrNotFound):
		return Failed(fmt.Errorf("checking for existing seed article: %w", err))
	}

	article, err := svc.Content.Create(ctx, "Welcome", folder.ID, schema.Alias(ArticlePageAlias))
	if err != nil {
		return Failed(fmt.Errorf("creating seed article: %w", err))
	}

	article.SetValue("pageTitle", "Welcome")
	article.SetValue("mainContent", "<p>Welcome to your new site. Replace this article with your own content.</p>")
	article.SetValue("summary", "A starting point for your content tree.")

	if err := svc.Content.Save(ctx, article); err != nil {
		return Failed(fmt.Errorf("saving seed article: %w", err))
	}

	publish, err := svc.Content.Publish(ctx, article)
	if err != nil {
		return Failed(fmt.Errorf("publishing seed article: %w", err))
	}
	if !publish.Success {
		scope.Logger().Warn("seed article saved but not published",
			zap.Strings("invalidProperties", publish.InvalidProperties))
	}

	return Created()
}
