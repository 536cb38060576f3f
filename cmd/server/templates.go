package main

import (
	"html/template"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// LoadTemplates parses the HTML templates for the display pages
func LoadTemplates() *template.Template {
	tmpl := template.New("")
	files, err := filepath.Glob("integrations/templates/*.html")
	if err != nil {
		log.Fatal().Err(err).Msg("bad template pattern")
	}
	if len(files) == 0 {
		log.Warn().Msg("no templates found in integrations/templates, /athan will fail")
		return tmpl
	}
	return template.Must(tmpl.ParseFiles(files...))
}
