// Package core holds the template functions shared by the landing and error pages.
package core

import (
	"bytes"
	"errors"
	"html/template"
)

// Deps wires the func map to the template set it is installed on.
type Deps struct {
	// Template points at the parsed set; it is filled in after parsing.
	Template           **template.Template
	ContentTemplateFor func(page string) string
}

// Funcs returns the func map installed on every page template.
func Funcs(deps Deps) template.FuncMap {
	return template.FuncMap{
		"renderSection": renderSection(deps),
	}
}

// renderSection executes the content template of a page inside the layout.
func renderSection(deps Deps) func(page string, data any) (template.HTML, error) {
	return func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		if deps.ContentTemplateFor == nil {
			return "", errors.New("content template lookup not configured")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - output of our own html/template set, already escaped.
		return template.HTML(buf.String()), nil
	}
}

// TruncateText shortens s to at most maxLen runes, ending in an ellipsis
// when it had to cut.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return string(runes[:1])
	}
	return string(runes[:maxLen-1]) + "…"
}
