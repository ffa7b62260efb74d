package httpx

import "github.com/laxenta/laxenta-web/internal/http/ui/landing"

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// DefaultSessionCookie is the cookie carrying the session id when none is configured.
const DefaultSessionCookie = "session_id"

// Content templates per page.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	landing.PageHome:  "home-content",
	landing.PageError: "error-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to home-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "home-content"
}
