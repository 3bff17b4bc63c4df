package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"

	"mdjs/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty debug report. When destination cannot be created
// report goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{entries: make(map[string]entry), workDirs: make(map[string]bool), file: f}, nil
}

type entry struct {
	path  string // absolute, empty for data entries
	data  []byte
	stamp time.Time
}

// Report collects files, directories and data produced while program runs
// and packs them into a single zip archive on Close. Documents are converted
// in parallel so all methods may be called concurrently. All methods accept
// nil receiver: no report was requested.
type Report struct {
	mu       sync.Mutex
	entries  map[string]entry
	workDirs map[string]bool // removed after archive is written
	file     *os.File
}

// Name returns absolute name of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// uniqueName returns name not yet used in the report, adding numeric suffix
// before extension when necessary. Caller holds the lock.
func (r *Report) uniqueName(name string) string {
	if _, exists := r.entries[name]; !exists {
		return name
	}
	ext := filepath.Ext(name)
	base := name[:len(name)-len(ext)]
	for i := 2; ; i++ {
		n := fmt.Sprintf("%s-%d%s", base, i, ext)
		if _, exists := r.entries[n]; !exists {
			return n
		}
	}
}

// Store adds file or directory to the report, content is read on Close.
// Directories are treated as temporary work areas and removed on Close.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for n, e := range r.entries {
		if e.path == path && n == name {
			return
		}
	}
	r.entries[r.uniqueName(name)] = entry{path: path}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		r.workDirs[path] = true
	}
}

// StoreData adds data to the report as a file with requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.uniqueName(name)] = entry{data: data, stamp: time.Now()}
}

// Close writes the archive and removes stored work directories.
func (r *Report) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.finalize()
	err = multierr.Append(err, r.file.Close())
	r.file = nil

	for dir := range r.workDirs {
		err = multierr.Append(err, os.RemoveAll(dir))
	}
	return err
}

func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)

	names, manifest := r.manifest(time.Now())
	err := saveFile(arc, "MANIFEST", time.Now(), bytes.NewReader(manifest))
	for _, name := range names {
		if err != nil {
			break
		}
		e := r.entries[name]
		if e.path == "" {
			err = saveFile(arc, name, e.stamp, bytes.NewReader(e.data))
			continue
		}
		err = saveTree(arc, name, e.path)
	}
	return multierr.Append(err, arc.Close())
}

// manifest lists report entries in archive order.
func (r *Report) manifest(now time.Time) ([]string, []byte) {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s (%s)\n", misc.GetAppName(), misc.GetVersion(), misc.GetGitHash())
	for _, n := range names {
		e := r.entries[n]
		stamp, source := e.stamp, e.path
		if stamp.IsZero() {
			stamp = now
		}
		if source == "" {
			source = fmt.Sprintf("<%d bytes>", len(e.data))
		}
		fmt.Fprintf(&buf, "%s\t%s\t%s\n", stamp.UTC().Format(time.RFC3339), n, source)
	}
	return names, buf.Bytes()
}

func saveFile(dst *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

// saveTree puts regular file or all regular files under directory into the
// archive. Absent paths are skipped.
func saveTree(dst *zip.Writer, name, root string) error {
	if _, err := os.Stat(root); err != nil {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return saveFile(dst, filepath.ToSlash(filepath.Join(name, rel)), info.ModTime(), f)
	})
}
