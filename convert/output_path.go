package convert

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"mdjs/config"
	"mdjs/content"
	"mdjs/state"
)

// buildOutputPath returns name of the output file for document c read from
// src (relative to source root). Source directory structure is kept under dst
// unless NoDirs is requested. The name is either source file name or result
// of output name template, which may also produce subdirectories.
func buildOutputPath(c *content.Content, src, dst string, env *state.LocalEnv) string {
	dir := dst
	if !env.NoDirs {
		dir = filepath.Join(dst, filepath.Dir(src))
	}

	var segments []string
	if tmpl := env.Cfg.Document.OutputNameTemplate; len(tmpl) > 0 {
		name, err := expandTemplate(c, config.OutputNameTemplateFieldName, tmpl, env.Format)
		if err != nil {
			env.Log.Warn("Unable to prepare output file name, using default", zap.String("source", src), zap.Error(err))
		}
		segments = nameSegments(name)
	}
	if len(segments) == 0 {
		segments = []string{strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))}
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, dir)
	for _, s := range segments {
		if env.Cfg.Document.FileNameTransliterate {
			s = slug.Make(s)
		}
		parts = append(parts, config.CleanFileName(s))
	}
	parts[len(parts)-1] += env.Format.Ext()
	return filepath.Join(parts...)
}

// nameSegments splits expanded template into path elements. Empty elements
// and relative references are dropped so result always stays under
// destination directory.
func nameSegments(name string) []string {
	var segments []string
	for _, s := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '/' || r == os.PathSeparator
	}) {
		if s = strings.TrimSpace(s); s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}
