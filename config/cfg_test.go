package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tabstyle/colors"
	"tabstyle/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Input.Delimiter != "," {
		t.Errorf("Default delimiter = %q, want ','", cfg.Input.Delimiter)
	}
	if cfg.Output.Format != common.OutputFmtFragment {
		t.Errorf("Default format = %v, want fragment", cfg.Output.Format)
	}
	if cfg.Styling.Precision != nil {
		t.Errorf("Default precision = %d, want unset", *cfg.Styling.Precision)
	}
}

func TestLoadConfiguration_TemplatesNotExpanded(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if !strings.Contains(cfg.Output.NameTemplate, "{{") {
		t.Errorf("name_template was expanded: %q", cfg.Output.NameTemplate)
	}
	if cfg.Output.PageTitle != "{{ .Source }}" {
		t.Errorf("page_title = %q", cfg.Output.PageTitle)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
input:
  delimiter: ";"
  encoding: windows-1251
styling:
  precision: 2
  table_classes: ["striped"]
  labels:
    price: "Price, $"
  gradients:
    - columns: ["price", "qty"]
      color: "#ff0000"
      vmin: 1
    - expression:
        column: count
        ops:
          - op: log
            arg: 2
        alias: count
      palette: viridis
      text_color_threshold: 0.5
  cells:
    - column: name
      style: "font-weight: bold"
output:
  format: page
logging:
  console:
    level: debug
  file:
    level: none
reporting:
  destination: report.zip
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Input.Delimiter != ";" || cfg.Input.Encoding != "windows-1251" {
		t.Errorf("Input = %+v", cfg.Input)
	}
	// not overwritten by the file
	if len(cfg.Input.Nulls) != 3 {
		t.Errorf("Nulls = %v, want defaults", cfg.Input.Nulls)
	}
	if cfg.Styling.Precision == nil || *cfg.Styling.Precision != 2 {
		t.Errorf("Precision = %v, want 2", cfg.Styling.Precision)
	}
	if cfg.Styling.Labels["price"] != "Price, $" {
		t.Errorf("Labels = %v", cfg.Styling.Labels)
	}
	if cfg.Output.Format != common.OutputFmtPage {
		t.Errorf("Format = %v, want page", cfg.Output.Format)
	}

	if len(cfg.Styling.Gradients) != 2 {
		t.Fatalf("Gradients = %d, want 2", len(cfg.Styling.Gradients))
	}
	g := cfg.Styling.Gradients[0]
	if g.Color == nil || *g.Color != colors.New(255, 0, 0) {
		t.Errorf("Gradient color = %v", g.Color)
	}
	if g.VMin == nil || *g.VMin != 1 || g.VMax != nil {
		t.Errorf("Gradient bounds = %v %v", g.VMin, g.VMax)
	}
	e := cfg.Styling.Gradients[1].Expression
	if e == nil || e.Column != "count" || len(e.Ops) != 1 || e.Ops[0].Op != common.ExprOpLog || *e.Ops[0].Arg != 2 {
		t.Errorf("Expression = %+v", e)
	}
	if th := cfg.Styling.Gradients[1].TextColorThreshold; th == nil || *th != 0.5 {
		t.Errorf("TextColorThreshold = %v", th)
	}
	if len(cfg.Styling.Cells) != 1 || cfg.Styling.Cells[0].Style != "font-weight: bold" {
		t.Errorf("Cells = %+v", cfg.Styling.Cells)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\nstyling:\n  precision: 2\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad delimiter", "version: 1\ninput:\n  delimiter: \"::\"\n"},
		{"negative precision", "version: 1\nstyling:\n  precision: -1\n"},
		{"unknown palette", "version: 1\nstyling:\n  gradients:\n    - columns: [a]\n      palette: plasma\n"},
		{"no target", "version: 1\nstyling:\n  gradients:\n    - color: red\n"},
		{"single color", "version: 1\nstyling:\n  gradients:\n    - columns: [a]\n      colors: [red]\n"},
		{"bad color", "version: 1\nstyling:\n  gradients:\n    - columns: [a]\n      color: \"#12\"\n"},
		{"bad op", "version: 1\nstyling:\n  gradients:\n    - expression:\n        column: a\n        ops: [{op: pow}]\n"},
		{"threshold range", "version: 1\nstyling:\n  gradients:\n    - columns: [a]\n      text_color_threshold: 2\n"},
		{"bad format", "version: 1\noutput:\n  format: pdf\n"},
		{"empty cell style", "version: 1\nstyling:\n  cells:\n    - column: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadConfiguration() expected error")
			}
		})
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	for _, want := range []string{"version: 1", "name_template:", "gradients:"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Prepare() output missing %q", want)
		}
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	red := colors.New(255, 0, 0)
	cfg.Styling.Gradients = []GradientConfig{{Columns: []string{"a"}, Color: &red}}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{"version: 1", "format: fragment", `color: '#ff0000'`} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump() output missing %q:\n%s", want, out)
		}
	}

	// dumped configuration must load back
	back, err := LoadConfiguration(writeConfig(t, out))
	if err != nil {
		t.Fatalf("LoadConfiguration(dumped) error = %v", err)
	}
	if back.Styling.Gradients[0].Color == nil || *back.Styling.Gradients[0].Color != red {
		t.Errorf("round trip color = %v", back.Styling.Gradients[0].Color)
	}
}

func TestUnmarshalConfig_NoProcessing(t *testing.T) {
	cfg, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, false)
	if err != nil {
		t.Fatalf("unmarshalConfig() error = %v", err)
	}
	if cfg.Version != 99 {
		t.Errorf("Version = %d, want 99", cfg.Version)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}
