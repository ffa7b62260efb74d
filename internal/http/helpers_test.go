package httpx

import (
	"os"
	"strings"
	"testing"
)

// RequireTemplateRenderer parses the on-disk templates or skips the test.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	SkipIfNoTemplates(t)
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromTest)})
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	return tr
}

// SkipIfNoTemplates skips tests that need the frontend tree.
func SkipIfNoTemplates(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("frontend templates not available")
	}
}

// assertMarkers fails once per marker that is missing from the page.
// Matching ignores case so escaped query strings compare either way.
func assertMarkers(t *testing.T, body string, markers []string) {
	t.Helper()
	page := strings.ToLower(body)
	for _, m := range markers {
		if !strings.Contains(page, strings.ToLower(m)) {
			t.Errorf("page is missing %q", m)
		}
	}
}

// refuteMarkers fails once per marker that should not be on the page.
func refuteMarkers(t *testing.T, body string, markers []string) {
	t.Helper()
	page := strings.ToLower(body)
	for _, m := range markers {
		if strings.Contains(page, strings.ToLower(m)) {
			t.Errorf("page unexpectedly contains %q", m)
		}
	}
}
