package convert

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"tabstyle/config"
	"tabstyle/state"
)

const outputExt = ".html"

// buildOutputPath returns output file path for a rendered table or page.
// Source directory structure (relative to processed directory or archive) is
// preserved under dst. File name comes from the name template which may
// introduce additional subdirectories.
func buildOutputPath(dst, relDir string, v Values, env *state.LocalEnv, log *zap.Logger) string {
	outDir := filepath.Join(dst, relDir)

	name := ""
	if tmpl := env.Cfg.Output.NameTemplate; tmpl != "" {
		expanded, err := expandTemplate(config.NameTemplateFieldName, tmpl, v)
		if err != nil {
			log.Warn("Unable to prepare output filename", zap.Error(err))
		}
		name = strings.TrimSpace(filepath.FromSlash(expanded))
	}
	if name == "" {
		// fallback to default name if template is absent or expansion failed
		name = defaultFileName(v)
	}
	return assemblePath(outDir, name)
}

func defaultFileName(v Values) string {
	name := slug.Make(v.Source)
	if v.Table != "" {
		name += "-" + slug.Make(v.Table)
	}
	return name
}

// assemblePath cleans every segment of expanded name and adds extension.
func assemblePath(outDir, name string) string {
	segments := splitPath(name)
	if len(segments) == 0 {
		return filepath.Join(outDir, config.CleanFileName("")+outputExt)
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, s := range segments {
		parts = append(parts, config.CleanFileName(s))
	}
	last := len(parts) - 1
	if !strings.EqualFold(filepath.Ext(parts[last]), outputExt) {
		parts[last] += outputExt
	}
	return filepath.Join(parts...)
}

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == filepath.Separator || r == '/'
	})
}
