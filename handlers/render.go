package handlers

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() *Renderer {
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, page := range []string{"form.html", "thank_you.html", "error.html"} {
		r.pages[page] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+page))
	}
	return r
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return echo.NewHTTPError(500, "unknown template "+name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
