// Package web embeds the HTML views and static assets and renders them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/Masterminds/sprig"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer renders named page templates. Each page is parsed together with
// the shared layouts so pages only define their own blocks.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every embedded page template.
func NewRenderer() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	entries, err := fs.ReadDir(fsys, "templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		t, err := template.New(e.Name()).
			Funcs(sprig.FuncMap()).
			ParseFS(fsys, "templates/layouts/*.html", "templates/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", e.Name(), err)
		}
		pages[e.Name()] = t
	}

	return &Renderer{pages: pages}, nil
}

// Render executes the page called name with data into w.
func (r *Renderer) Render(w io.Writer, name string, data map[string]any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	return nil
}

// StaticHandler serves the embedded static assets under /static/.
func StaticHandler() http.Handler {
	subFS, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(subFS)))
}
