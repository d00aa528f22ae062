package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/yegors/airport-readiness/internal/schema"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages renders the embedded HTML templates
type Pages struct {
	templates *template.Template
}

// NewPages parses the embedded templates
func NewPages() (*Pages, error) {
	t, err := template.New("").Funcs(templateFuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Pages{templates: t}, nil
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"noteKey":  func(field string) string { return field + schema.NoteSuffix },
		"contains": func(list []string, s string) bool { return slices.Contains(list, s) },
		"join":     strings.Join,
	}
}

// Render executes the named page into a buffer first so a template error
// never leaves a half-written response
func (p *Pages) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
