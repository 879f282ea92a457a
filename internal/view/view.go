// Package view renders the server-side HTML pages.  Templates and the
// stylesheet are embedded in the binary.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/model"
)

//go:embed templates static
var files embed.FS

// Page is the value every template receives.  Data is the page-specific
// payload; Flashes are the one-shot messages carried over from the
// previous request.
type Page struct {
	Flashes []string
	Data    any
}

// Renderer implements echo.Renderer over one template set per page, each
// combined with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"datetime": func(value string, format ...string) string {
		f := "medium"
		if len(format) > 0 {
			f = format[0]
		}
		return model.FormatDateTime(value, f)
	},
	"genres": model.SplitGenres,
	"contains": func(genres, genre string) bool {
		for _, g := range model.SplitGenres(genres) {
			if g == genre {
				return true
			}
		}
		return false
	},
}

// New parses every page under templates/{pages,forms,errors}.
func New() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, dir := range []string{"pages", "forms", "errors"} {
		names, err := fs.Glob(files, "templates/"+dir+"/*.html")
		if err != nil {
			return nil, err
		}
		for _, path := range names {
			name := strings.TrimPrefix(path, "templates/")
			t, err := template.New("main.html").Funcs(funcs).ParseFS(files, "templates/layouts/main.html", path)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			r.pages[name] = t
		}
	}
	return r, nil
}

// Render executes the named page, e.g. "pages/home.html".
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "main.html", data)
}

// Static returns the embedded static assets rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
