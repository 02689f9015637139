package rendering

import (
	"embed"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/resume.tex.tmpl
var templateFiles embed.FS

var (
	latexOnce     sync.Once
	latexTemplate *template.Template
	latexErr      error
)

// parseLaTeXTemplate parses the embedded LaTeX template once
func parseLaTeXTemplate() (*template.Template, error) {
	latexOnce.Do(func() {
		content, err := templateFiles.ReadFile("templates/resume.tex.tmpl")
		if err != nil {
			latexErr = &TemplateError{Message: "embedded LaTeX template missing", Cause: err}
			return
		}
		latexTemplate, err = template.New("resume").Funcs(template.FuncMap{
			"escape":    EscapeLaTeX,
			"escapeURL": escapeLaTeXURL,
		}).Parse(string(content))
		if err != nil {
			latexErr = &TemplateError{Message: "failed to parse template", Cause: err}
		}
	})
	return latexTemplate, latexErr
}

// encodeLaTeX renders the document as a standalone LaTeX source file
func encodeLaTeX(doc *documentView) ([]byte, error) {
	tmpl, err := parseLaTeXTemplate()
	if err != nil {
		return nil, err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, doc); err != nil {
		return nil, &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return []byte(result.String()), nil
}
