package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	corefuncs "github.com/laxenta/laxenta-web/internal/http/templates/core"
	"github.com/laxenta/laxenta-web/internal/http/ui/viewmodel"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var t *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{
		Template:           &t,
		ContentTemplateFor: ContentTemplateFor,
	})
	t, err := template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: logger}, nil
}

// RenderFull renders the full page (layout + page content) with status 200.
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, renderParams{Name: "layout", Status: http.StatusOK, Data: data})
}

// RenderStatus renders the full page with the given status code.
func (r *TemplateRenderer) RenderStatus(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, renderParams{Name: "layout", Status: status, Data: data})
}

type renderParams struct {
	Name   string
	Status int
	Data   any
}

// renderTemplate executes into a buffer first so a failed render never leaves
// a half-written page behind.
func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, p renderParams) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, p.Name, p.Data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", p.Name),
			slog.String("page", pageOf(p.Data)),
			slog.Any("error", err),
		)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(p.Status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", p.Name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func pageOf(data any) string {
	if lp, ok := data.(viewmodel.LayoutProvider); ok && lp.LayoutData() != nil {
		return lp.LayoutData().CurrentPage
	}
	return ""
}
