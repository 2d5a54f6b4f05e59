// Package web holds the HTML templates of the browser surface.
package web

import (
	"embed"
	"html/template"

	"github.com/briangreenhill/pokedex/internal/palette"
)

//go:embed templates/*.tmpl
var files embed.FS

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"title":  palette.Title,
	"color":  palette.Color,
	"accent": accent,
}

// accent is the hover border of a card: a diagonal split between the
// primary and secondary type colors.
func accent(types []string) template.CSS {
	primary, secondary := palette.Accent(types)
	return template.CSS("linear-gradient(45deg, " + primary + " 50%, " + secondary + " 50%) 1")
}

// Templates parses the embedded templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "templates/*.tmpl")
}
