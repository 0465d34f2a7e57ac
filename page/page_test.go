package page

import (
	"reflect"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func TestAnchors(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   []string
	}{
		{"distinct", []string{"Prices", "Stock Levels"}, []string{"prices", "stock-levels"}},
		{"repeated", []string{"Prices", "prices", "PRICES"}, []string{"prices", "prices-2", "prices-3"}},
		{"suffix collision", []string{"a-2", "a", "a"}, []string{"a-2", "a", "a-3"}},
		{"empty slug", []string{"", "!!"}, []string{"table", "table-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Anchors(tt.titles); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Anchors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	frag := `<style>
  #T_x_row0_col0 {color: red;}
</style>
<table class="dataframe"><thead><tr><th>a</th></tr></thead><tbody><tr><td id="T_x_row0_col0">1</td></tr></tbody></table>`

	out, err := Compose("Sales & Stock", []Section{
		{Title: "sales", Body: frag},
		{Title: "sales", Body: frag},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "<!DOCTYPE html>") {
		t.Errorf("document does not start with doctype: %q", s[:20])
	}
	if !strings.Contains(s, "<title>Sales &amp; Stock</title>") {
		t.Error("title is not escaped")
	}
	if !strings.Contains(s, frag) {
		t.Error("fragment was not inserted verbatim")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(strings.TrimPrefix(s, "<!DOCTYPE html>\n")); err != nil {
		t.Fatalf("cannot parse page: %v", err)
	}
	sections := doc.FindElements("//section")
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	if sections[0].SelectAttrValue("id", "") != "sales" || sections[1].SelectAttrValue("id", "") != "sales-2" {
		t.Errorf("section ids = %q, %q", sections[0].SelectAttrValue("id", ""), sections[1].SelectAttrValue("id", ""))
	}
	links := doc.FindElements("//nav//a")
	if len(links) != 2 || links[1].SelectAttrValue("href", "") != "#sales-2" {
		t.Errorf("navigation links wrong: %d", len(links))
	}
}

func TestCompose_SingleSectionNoNav(t *testing.T) {
	out, err := Compose("t", []Section{{Title: "only", Body: "<table></table>"}})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if strings.Contains(string(out), "<nav>") {
		t.Error("single section page should not have navigation")
	}
}
