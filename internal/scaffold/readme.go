package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed readme/*.md.tmpl
var readmeFS embed.FS

// ReadmeData holds the variables available to the README templates.
type ReadmeData struct {
	ProjectName string
	EngineName  string
	MCPName     string
}

// NewReadmeData derives the display names for engine.
func NewReadmeData(projectName, engine string) ReadmeData {
	d := ReadmeData{ProjectName: projectName, EngineName: "Unity", MCPName: "Unity MCP"}
	if engine == "godot" {
		d.EngineName = "Godot"
		d.MCPName = "GDAI MCP"
	}
	return d
}

// RenderReadme renders the README for lang, falling back to English when
// the language has no template.
func RenderReadme(lang string, data ReadmeData) ([]byte, error) {
	name := "readme/" + lang + ".md.tmpl"
	tmplBytes, err := readmeFS.ReadFile(name)
	if err != nil {
		name = "readme/en.md.tmpl"
		if tmplBytes, err = readmeFS.ReadFile(name); err != nil {
			return nil, fmt.Errorf("reading README template: %w", err)
		}
	}

	tmpl, err := template.New(name).Parse(string(tmplBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
