// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"golang.org/x/text/encoding"
)

// Entry is a regular file in archive. Name is the path inside archive,
// decoded from forced code page when the entry is not marked as UTF-8.
type Entry struct {
	Name string
	File *zip.File
}

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk. If an error is returned, processing stops.
type WalkFunc func(archive string, e Entry) error

type options struct {
	cp encoding.Encoding
}

type Option func(*options)

// WithCodePage forces encoding of non UTF-8 entry names. Zip "standard"
// does not define it and old archives often use local code pages.
func WithCodePage(cp encoding.Encoding) Option {
	return func(o *options) {
		o.cp = cp
	}
}

// Walk walks all files in the archive which names start with prefix in
// natural order of their names, calling walkFn for each item. Archives with
// path traversal components ("..") or absolute paths are rejected to prevent
// Zip Slip attacks.
func Walk(archive, prefix string, walkFn WalkFunc, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		name, err := decodeName(f, o.cp)
		if err != nil {
			return fmt.Errorf("zip entry %q: %w", f.Name, err)
		}
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			entries = append(entries, Entry{Name: name, File: f})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return natural.Less(entries[i].Name, entries[j].Name)
	})

	for _, e := range entries {
		if err := walkFn(archive, e); err != nil {
			return err
		}
	}
	return nil
}

func decodeName(f *zip.File, cp encoding.Encoding) (string, error) {
	if cp == nil || !f.NonUTF8 {
		return f.Name, nil
	}
	name, err := cp.NewDecoder().String(f.Name)
	if err != nil {
		return "", fmt.Errorf("unable to decode name: %w", err)
	}
	return name, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
