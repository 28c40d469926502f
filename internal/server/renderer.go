package server

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templates embed.FS

type renderer struct {
	templates *template.Template
}

// NewRenderer returns an echo.Renderer of the embedded HTML templates.
func NewRenderer() echo.Renderer {
	return &renderer{
		templates: template.Must(template.ParseFS(templates, "templates/*.html")),
	}
}

// Render implements the echo.Renderer interface.
func (r *renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
