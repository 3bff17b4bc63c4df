package convert

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

func writeZip(t *testing.T, path string, files map[string][]byte) {
	t.Helper()
	zipFile, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for name, data := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("Failed to write file in zip: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
}

func TestIsArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("non-zip extension", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test.txt")
		if err := os.WriteFile(filePath, []byte("not a zip"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got {
			t.Errorf("isArchiveFile() = %v, want false", got)
		}
	})

	t.Run("zip extension but invalid content", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test.zip")
		if err := os.WriteFile(filePath, []byte("not a real zip file"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got {
			t.Errorf("isArchiveFile() = %v, want false", got)
		}
	})

	t.Run("valid zip file", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "Docs.ZIP")
		writeZip(t, filePath, map[string][]byte{"readme.md": []byte("# readme")})
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if !got {
			t.Errorf("isArchiveFile() = %v, want true", got)
		}
	})

	t.Run("non-existent file", func(t *testing.T) {
		if _, err := isArchiveFile("/nonexistent/file.zip"); err == nil {
			t.Error("Expected error for non-existent file, got nil")
		}
	})
}

func TestDetectUTF(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want srcEncoding
	}{
		{"UTF-8 BOM", []byte{0xEF, 0xBB, 0xBF, 0x23}, encUTF8},
		{"UTF-16 Big Endian BOM", []byte{0xFE, 0xFF, 0x00, 0x23}, encUTF16BigEndian},
		{"UTF-16 Little Endian BOM", []byte{0xFF, 0xFE, 0x23, 0x00}, encUTF16LittleEndian},
		{"UTF-32 Big Endian BOM", []byte{0x00, 0x00, 0xFE, 0xFF}, encUTF32BigEndian},
		{"UTF-32 Little Endian BOM", []byte{0xFF, 0xFE, 0x00, 0x00}, encUTF32LittleEndian},
		{"No BOM", []byte("# title"), encUnknown},
		{"Too short", []byte{0xFF}, encUnknown},
		{"Empty", nil, encUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectUTF(tt.buf); got != tt.want {
				t.Errorf("detectUTF() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsMarkdownName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"readme.md", true},
		{"README.MD", true},
		{"notes.markdown", true},
		{"a/b/c.mdown", true},
		{"x.mkd", true},
		{"readme.txt", false},
		{"readme.md.bak", false},
		{"md", false},
		{"readme.meta", false},
	}
	for _, tt := range tests {
		if got := isMarkdownName(tt.name); got != tt.want {
			t.Errorf("isMarkdownName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsMarkdownHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  []byte
		want    bool
		wantEnc srcEncoding
	}{
		{"empty", nil, true, encUnknown},
		{"plain text", []byte("# Title\n\nSome *text*.\n"), true, encUnknown},
		{"utf-8 with BOM", append([]byte{0xEF, 0xBB, 0xBF}, "# Title"...), true, encUTF8},
		{"utf-16 with BOM", []byte{0xFF, 0xFE, 0x23, 0x00, 0x20, 0x00}, true, encUTF16LittleEndian},
		{"png image", pngHeader, false, encUnknown},
		{"binary with NUL", []byte("abc\x00def"), false, encUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc := isMarkdownHeader(tt.header)
			if got != tt.want || enc != tt.wantEnc {
				t.Errorf("isMarkdownHeader() = (%v, %v), want (%v, %v)", got, enc, tt.want, tt.wantEnc)
			}
		})
	}
}

func TestIsMarkdownFile(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name string, data []byte) string {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		return path
	}

	tests := []struct {
		name    string
		path    string
		want    bool
		wantEnc srcEncoding
	}{
		{"markdown", write("doc.md", []byte("# doc\n")), true, encUnknown},
		{"empty markdown", write("empty.md", nil), true, encUnknown},
		{"markdown with BOM", write("bom.markdown", []byte{0xEF, 0xBB, 0xBF, '#'}), true, encUTF8},
		{"wrong extension", write("doc.txt", []byte("# doc\n")), false, encUnknown},
		{"image with markdown extension", write("image.md", pngHeader), false, encUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := isMarkdownFile(tt.path)
			if err != nil {
				t.Fatalf("isMarkdownFile() error = %v", err)
			}
			if got != tt.want || enc != tt.wantEnc {
				t.Errorf("isMarkdownFile() = (%v, %v), want (%v, %v)", got, enc, tt.want, tt.wantEnc)
			}
		})
	}

	t.Run("non-existent file", func(t *testing.T) {
		if _, _, err := isMarkdownFile(filepath.Join(tmpDir, "missing.md")); err == nil {
			t.Error("Expected error for non-existent file, got nil")
		}
	})
}

func TestIsMarkdownInArchive(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "docs.zip")
	writeZip(t, zipPath, map[string][]byte{
		"docs/readme.md": []byte("# readme\n"),
		"docs/logo.md":   pngHeader,
		"docs/notes.txt": []byte("notes"),
	})

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("Failed to open zip: %v", err)
	}
	defer r.Close()

	want := map[string]bool{
		"docs/readme.md": true,
		"docs/logo.md":   false,
		"docs/notes.txt": false,
	}
	for _, f := range r.File {
		got, _, err := isMarkdownInArchive(f.Name, f)
		if err != nil {
			t.Errorf("isMarkdownInArchive(%s) error = %v", f.Name, err)
			continue
		}
		if got != want[f.Name] {
			t.Errorf("isMarkdownInArchive(%s) = %v, want %v", f.Name, got, want[f.Name])
		}
	}
}

func TestSelectReader(t *testing.T) {
	const text = "# Заголовок\n\ntext\n"

	for _, enc := range []srcEncoding{encUnknown, encUTF8, encUTF16BigEndian, encUTF16LittleEndian, encUTF32BigEndian, encUTF32LittleEndian} {
		t.Run(enc.String(), func(t *testing.T) {
			encoded, err := io.ReadAll(readerForEncoding(t, []byte(text), enc))
			if err != nil {
				t.Fatalf("read encoded: %v", err)
			}
			if got := detectUTF(encoded); got != enc {
				t.Fatalf("detectUTF() = %v, want %v", got, enc)
			}
			decoded, err := io.ReadAll(selectReader(bytes.NewReader(encoded), enc))
			if err != nil {
				t.Fatalf("selectReader() read error = %v", err)
			}
			if string(decoded) != text {
				t.Errorf("selectReader() = %q, want %q", decoded, text)
			}
		})
	}
}

func TestSelectReader_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("selectReader() expected panic for unknown encoding")
		}
	}()
	selectReader(bytes.NewReader(nil), srcEncoding(100))
}
