package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"tabstyle/config"
	"tabstyle/state"
)

func TestBuildOutputPath(t *testing.T) {
	dst := filepath.FromSlash("/out")
	v := Values{Source: "Shop Data", Table: "Stock"}

	tests := []struct {
		name     string
		template string
		relDir   string
		want     string
	}{
		{"default template", "{{ slug .Source }}{{ with .Table }}-{{ slug . }}{{ end }}", "", "/out/shop-data-stock.html"},
		{"no template", "", "", "/out/shop-data-stock.html"},
		{"relative dir kept", "{{ .Table }}", "2024/q1", "/out/2024/q1/Stock.html"},
		{"subdirectories", "{{ .Source }}/{{ .Table }}", "", "/out/Shop Data/Stock.html"},
		{"extension not doubled", "{{ .Table }}.html", "", "/out/Stock.html"},
		{"traversal neutralized", "../../{{ .Table }}", "", "/out/_table_/_table_/Stock.html"},
		{"failed expansion falls back", "{{ .Nope }}", "", "/out/shop-data-stock.html"},
		{"empty expansion falls back", "{{ if false }}x{{ end }}", "", "/out/shop-data-stock.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &state.LocalEnv{Cfg: &config.Config{Output: config.OutputConfig{NameTemplate: tt.template}}}
			got := buildOutputPath(dst, filepath.FromSlash(tt.relDir), v, env, zaptest.NewLogger(t))
			if want := filepath.FromSlash(tt.want); got != want {
				t.Errorf("buildOutputPath() = %q, want %q", got, want)
			}
		})
	}
}

func TestDefaultFileName(t *testing.T) {
	if got := defaultFileName(Values{Source: "Prices"}); got != "prices" {
		t.Errorf("defaultFileName() = %q", got)
	}
	if got := defaultFileName(Values{Source: "db", Table: "a/b"}); got != "db-a-b" {
		t.Errorf("defaultFileName() = %q", got)
	}
}
