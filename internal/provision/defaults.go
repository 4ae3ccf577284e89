package provision

// DefaultHandlers returns the built-in handler set in registration order.
// The orchestrator reorders by declared dependencies, so the order here
// only decides ties.
func DefaultHandlers() []Handler {
	return []Handler{
		ContentPropertiesHandler{},
		FooterPropertiesHandler{},
		ArticlePageHandler{},
		LandingPageHandler{},
		WelcomeArticleHandler{},
	}
}
