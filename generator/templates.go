package generator

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"golang.org/x/tools/imports"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))

// executeTemplate renders the named template into buf.
func executeTemplate(buf *bytes.Buffer, name string, data any) error {
	if err := templates.ExecuteTemplate(buf, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return nil
}

// formatAndFixImports runs goimports-equivalent processing on src, adding
// missing standard library imports and formatting the result.
func formatAndFixImports(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", filename, err)
	}
	return out, nil
}
