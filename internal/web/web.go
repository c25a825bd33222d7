// Package web holds the server-rendered views.
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every view. Each page is addressed by its file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04:05")
		},
	}).ParseFS(files, "templates/*.html")
}
