// Package web renders the server-side HTML pages from embedded templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"home.html",
	"blog_list.html",
	"blog_post.html",
	"admin_login.html",
	"admin_recover.html",
	"admin_dashboard.html",
}

// Renderer holds one parsed template set per page, each combined with the
// shared layout.
type Renderer struct {
	templates map[string]*template.Template
	policy    *bluemonday.Policy
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template, len(pages)),
		policy:    bluemonday.UGCPolicy(),
	}

	funcs := template.FuncMap{
		"sanitize": r.Sanitize,
		"date":     formatDate,
	}

	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}

	return r, nil
}

// Sanitize strips anything unsafe from stored post content. Stored content
// itself is never rewritten.
func (r *Renderer) Sanitize(content string) template.HTML {
	return template.HTML(r.policy.Sanitize(content))
}

// Render executes page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
