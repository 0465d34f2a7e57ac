// Package page composes rendered table fragments into a standalone HTML
// document.
package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strconv"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"tabstyle/misc"
)

//go:embed page.tmpl
var pageTmpl string

var tmpl = template.Must(template.New("page").Funcs(sprig.HtmlFuncMap()).Parse(pageTmpl))

// Section is a single rendered table.
type Section struct {
	Title string
	// Fragment as produced by the renderer, inserted verbatim.
	Body string
}

type section struct {
	Title  string
	Anchor string
	Body   template.HTML
}

type values struct {
	Title     string
	Generator string
	Sections  []section
}

// Anchors returns unique anchor for every title, repeated slugs get numeric
// suffix.
func Anchors(titles []string) []string {
	used := make(map[string]bool, len(titles))
	out := make([]string, len(titles))
	for i, t := range titles {
		base := slug.Make(t)
		if base == "" {
			base = "table"
		}
		a := base
		for n := 2; used[a]; n++ {
			a = base + "-" + strconv.Itoa(n)
		}
		used[a] = true
		out[i] = a
	}
	return out
}

// Compose renders HTML5 document with one section per table.
func Compose(title string, sections []Section) ([]byte, error) {
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.Title
	}
	anchors := Anchors(titles)

	v := values{
		Title:     title,
		Generator: fmt.Sprintf("%s %s", misc.GetAppName(), misc.GetVersion()),
		Sections:  make([]section, len(sections)),
	}
	for i, s := range sections {
		v.Sections[i] = section{Title: s.Title, Anchor: anchors[i], Body: template.HTML(s.Body)}
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, v); err != nil {
		return nil, fmt.Errorf("unable to compose page %q: %w", title, err)
	}
	return buf.Bytes(), nil
}
