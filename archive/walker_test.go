package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

type zipItem struct {
	name    string
	content string
	nonUTF8 bool
	dir     bool
}

func createZip(t *testing.T, items []zipItem) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for _, item := range items {
		fh := &zip.FileHeader{Name: item.name, Method: zip.Deflate, NonUTF8: item.nonUTF8}
		if item.dir {
			fh.SetMode(os.ModeDir | 0755)
		}
		fw, err := w.CreateHeader(fh)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", item.name, err)
		}
		if item.dir {
			continue
		}
		if _, err := fw.Write([]byte(item.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", item.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	return zipPath
}

func collect(t *testing.T, zipPath, prefix string, opts ...Option) []string {
	t.Helper()
	var visited []string
	err := Walk(zipPath, prefix, func(archive string, e Entry) error {
		if archive != zipPath {
			t.Errorf("archive = %s, want %s", archive, zipPath)
		}
		visited = append(visited, e.Name)
		return nil
	}, opts...)
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
	return visited
}

func TestWalk(t *testing.T) {
	zipPath := createZip(t, []zipItem{
		{name: "docs/readme.md", content: "# readme"},
		{name: "docs/guide.md", content: "# guide"},
		{name: "src/main.go", content: "package main"},
		{name: "src/test.go", content: "package main"},
		{name: "config.yml", content: "version: 1"},
	})

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{"docs prefix", "docs/", []string{"docs/guide.md", "docs/readme.md"}},
		{"src prefix", "src/", []string{"src/main.go", "src/test.go"}},
		{"no matching prefix", "nonexistent/", nil},
		{"empty prefix", "", []string{"config.yml", "docs/guide.md", "docs/readme.md", "src/main.go", "src/test.go"}},
		{"case sensitive", "Docs/", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, zipPath, tt.prefix)
			if !slices.Equal(got, tt.want) {
				t.Errorf("visited = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("walkFn returns error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		err := Walk(zipPath, "docs/", func(archive string, e Entry) error {
			return expectedErr
		})
		if !errors.Is(err, expectedErr) {
			t.Errorf("Walk() error = %v, want %v", err, expectedErr)
		}
	})
}

func TestWalk_NaturalOrder(t *testing.T) {
	zipPath := createZip(t, []zipItem{
		{name: "ch10.md"},
		{name: "ch2.md"},
		{name: "ch1.md"},
	})

	got := collect(t, zipPath, "")
	want := []string{"ch1.md", "ch2.md", "ch10.md"}
	if !slices.Equal(got, want) {
		t.Errorf("visited = %v, want %v", got, want)
	}
}

func TestWalk_CodePage(t *testing.T) {
	encoded, err := charmap.CodePage866.NewEncoder().String("глава/Привет.md")
	if err != nil {
		t.Fatalf("Failed to encode name: %v", err)
	}
	zipPath := createZip(t, []zipItem{
		{name: encoded, content: "# Привет", nonUTF8: true},
		{name: "plain.md", content: "# plain"},
	})

	t.Run("without code page", func(t *testing.T) {
		got := collect(t, zipPath, "")
		if !slices.Contains(got, encoded) {
			t.Errorf("raw name is expected without code page, got %v", got)
		}
	})

	t.Run("forced code page", func(t *testing.T) {
		got := collect(t, zipPath, "глава/", WithCodePage(charmap.CodePage866))
		if !slices.Equal(got, []string{"глава/Привет.md"}) {
			t.Errorf("visited = %v, want decoded name", got)
		}
	})
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", "", func(archive string, e Entry) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		err := Walk(invalidZip, "", func(archive string, e Entry) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		zipPath := createZip(t, []zipItem{
			{name: "ok.md"},
			{name: "../evil.md"},
		})
		called := false
		err := Walk(zipPath, "", func(archive string, e Entry) error {
			called = true
			return nil
		})
		if err == nil {
			t.Error("Expected error for unsafe entry")
		}
		if called {
			t.Error("walkFn must not be called for archive with unsafe entries")
		}
	})
}

func TestWalk_WithDirectories(t *testing.T) {
	zipPath := createZip(t, []zipItem{
		{name: "mydir/", dir: true},
		{name: "mydir/file.md", content: "content"},
	})

	got := collect(t, zipPath, "mydir/")
	if !slices.Equal(got, []string{"mydir/file.md"}) {
		t.Errorf("visited = %v, want file only, not directory", got)
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	items := make([]zipItem, 0, 5)
	for i := range 5 {
		items = append(items, zipItem{name: "files/file" + string(rune('0'+i)) + ".md", content: "content"})
	}
	zipPath := createZip(t, items)

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, "files/", func(archive string, e Entry) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})
	if !errors.Is(err, stopErr) {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_FileContent(t *testing.T) {
	content := []byte("# test content\n")
	zipPath := createZip(t, []zipItem{{name: "test.md", content: string(content)}})

	err := Walk(zipPath, "", func(archive string, e Entry) error {
		rc, err := e.File.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}
		if !bytes.Equal(buf.Bytes(), content) {
			t.Errorf("content = %s, want %s", buf.Bytes(), content)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"docs/readme.md", true},
		{"a..b/c.md", true},
		{"../x.md", false},
		{"docs/../../x.md", false},
		{"/etc/passwd", false},
		{`\windows\x.md`, false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
