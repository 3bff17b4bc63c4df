package convert

import (
	"path/filepath"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"mdjs/common"
	"mdjs/config"
	"mdjs/content"
	"mdjs/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs bool, transliterate bool, format common.OutputFmt, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Document.FileNameTransliterate = transliterate
	cfg.Document.OutputNameTemplate = template

	env := &state.LocalEnv{
		Log:    logger,
		Cfg:    cfg,
		NoDirs: noDirs,
		Format: format,
	}
	return env
}

func setupTestContentForPath(t *testing.T, srcName string) *content.Content {
	t.Helper()
	return &content.Content{
		SrcName: srcName,
		ID:      content.DocumentID(srcName),
		Meta: content.Meta{
			Title:  "Test Document",
			Author: "John Doe",
			Date:   content.Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestBuildOutputPath(t *testing.T) {
	tests := []struct {
		name          string
		src           string
		noDirs        bool
		transliterate bool
		format        common.OutputFmt
		template      string
		want          string
	}{
		{
			name:   "no dirs",
			src:    "docs/guide/intro.md",
			noDirs: true,
			format: common.OutputFmtJs,
			want:   filepath.Join("/output", "intro.js"),
		},
		{
			name:   "with dirs",
			src:    "docs/guide/intro.md",
			format: common.OutputFmtJs,
			want:   filepath.Join("/output", "docs", "guide", "intro.js"),
		},
		{
			name:   "json extension",
			src:    "intro.markdown",
			format: common.OutputFmtJson,
			want:   filepath.Join("/output", "intro.json"),
		},
		{
			name:   "xml extension",
			src:    "intro.md",
			format: common.OutputFmtXml,
			want:   filepath.Join("/output", "intro.xml"),
		},
		{
			name:          "transliterated default name",
			src:           "Привет мир.md",
			noDirs:        true,
			transliterate: true,
			format:        common.OutputFmtJs,
			want:          filepath.Join("/output", "privet-mir.js"),
		},
		{
			name:     "template",
			src:      "docs/intro.md",
			noDirs:   true,
			format:   common.OutputFmtJs,
			template: "{{ .Author }} - {{ .Title }}",
			want:     filepath.Join("/output", "John Doe - Test Document.js"),
		},
		{
			name:     "template with subdirectories",
			src:      "docs/intro.md",
			format:   common.OutputFmtJson,
			template: "{{ .Date }}/{{ .SourceFile }}",
			want:     filepath.Join("/output", "docs", "2024-03-01", "intro.json"),
		},
		{
			name:          "template transliterated",
			src:           "intro.md",
			noDirs:        true,
			transliterate: true,
			format:        common.OutputFmtJs,
			template:      "{{ .Title }}",
			want:          filepath.Join("/output", "test-document.js"),
		},
		{
			name:     "template cannot leave destination",
			src:      "intro.md",
			noDirs:   true,
			format:   common.OutputFmtJs,
			template: "../../{{ .SourceFile }}",
			want:     filepath.Join("/output", "intro.js"),
		},
		{
			name:     "broken template falls back to default name",
			src:      "intro.md",
			noDirs:   true,
			format:   common.OutputFmtJs,
			template: "{{ .Title ",
			want:     filepath.Join("/output", "intro.js"),
		},
		{
			name:     "template producing empty name falls back to default name",
			src:      "intro.md",
			noDirs:   true,
			format:   common.OutputFmtJs,
			template: "{{ .Language }}",
			want:     filepath.Join("/output", "intro.js"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate, tt.format, tt.template)
			c := setupTestContentForPath(t, tt.src)
			got := buildOutputPath(c, tt.src, "/output", env)
			if got != tt.want {
				t.Errorf("buildOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNameSegments(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"file", []string{"file"}},
		{"a/b/file", []string{"a", "b", "file"}},
		{"a/file/", []string{"a", "file"}},
		{"/a//./../file", []string{"a", "file"}},
		{" a / b ", []string{"a", "b"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := nameSegments(tt.name); !slices.Equal(got, tt.want) {
			t.Errorf("nameSegments(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
