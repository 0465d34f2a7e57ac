package convert

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"tabstyle/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	// Source file name without directory and extension
	Source string
	// Table name inside the source, empty for single table sources
	Table  string
	Index  int
	Format string
}

func funcMap() template.FuncMap {
	fm := sprig.FuncMap()
	fm["slug"] = slug.Make
	return fm
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(funcMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", name, err)
	}
	return buf.String(), nil
}
