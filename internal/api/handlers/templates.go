package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/prasetyo/sentra/pkg/format"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages rendered on top of the shared layout.
var pageNames = []string{
	"overview.html",
	"insight.html",
	"alerts.html",
	"workflow.html",
	"import.html",
	"error.html",
}

// Templates holds the parsed dashboard templates, one template set per
// page sharing the common layout.
type Templates struct {
	pages map[string]*template.Template
}

// ParseTemplates parses the embedded dashboard templates.
func ParseTemplates() (*Templates, error) {
	funcs := template.FuncMap{
		"currency":         format.Currency,
		"percentage":       format.Percent,
		"signedPercentage": format.SignedPercent,
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Templates{pages: pages}, nil
}

// Render writes the named page to w.
func (t *Templates) Render(w io.Writer, page string, data interface{}) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("unknown template %s", page)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}
