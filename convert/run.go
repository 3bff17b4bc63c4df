package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/ianaindex"

	"mdjs/archive"
	"mdjs/common"
	"mdjs/config"
	"mdjs/content"
	"mdjs/state"
	"mdjs/style"
)

// sidecar metadata file extension
const metaExt = ".meta"

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Format, err = common.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to js", zap.Error(err))
		env.Format = common.OutputFmtJs
	}

	if err := loadStyle(env, cmd.String("style")); err != nil {
		return err
	}
	if err := loadSite(env, cmd.String("site")); err != nil {
		return err
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	if jobs := cmd.Int("jobs"); jobs > 0 {
		env.Jobs = jobs
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting",
		zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", env.Format),
		zap.String("style", env.Sheet.Name), zap.Int("jobs", env.Jobs))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// loadStyle resolves style sheet, name from the command line takes precedence
// over configuration.
func loadStyle(env *state.LocalEnv, name string) (err error) {
	if len(name) == 0 {
		name = env.Cfg.Document.Style.Name
	}
	if env.Sheet, err = style.Resolve(name, env.Log.Named("style")); err != nil {
		return fmt.Errorf("unable to load style %q: %w", name, err)
	}
	env.Rpt.StoreData(fmt.Sprintf("style/%s.js", env.Sheet.Name), []byte(env.Sheet.JS(env.Cfg.Document.Style.Variable)))
	return nil
}

// loadSite reads site script appended to every generated render script.
func loadSite(env *state.LocalEnv, path string) (err error) {
	if len(path) == 0 {
		path = env.Cfg.Document.Site.ScriptPath
	}
	if len(path) == 0 {
		return nil
	}
	if env.Site, err = os.ReadFile(path); err != nil {
		return fmt.Errorf("unable to read site script from %q: %w", path, err)
	}
	env.Rpt.Store("site/"+filepath.Base(path), path)
	return nil
}

// process handles the core conversion logic independently of CLI framework. It
// determines the input type (directory, archive, or single file) and processes
// accordingly.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			g := newGroup(ctx)
			if err := processArchive(g, head, tail, "", dst, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			return g.Wait()
		}

		md, enc, err := isMarkdownFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if md && len(tail) == 0 {
			// we have document, it cannot have tail
			if err := processFile(ctx, head, filepath.Base(head), enc, dst, log); err != nil {
				log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
			}
			break
		}
		return fmt.Errorf("input was not recognized as markdown document (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// group schedules document conversions on a limited number of workers.
type group struct {
	*errgroup.Group
	ctx context.Context
}

func newGroup(ctx context.Context) *group {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(state.EnvFromContext(ctx).Jobs)
	return &group{Group: g, ctx: gctx}
}

// processDir finds markdown files and archives under dir and schedules them in
// natural order of their paths.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Sort(natural.StringSlice(paths))

	g := newGroup(ctx)
	count := 0
	for _, path := range paths {
		if err := g.ctx.Err(); err != nil {
			break
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			// checking format - but cannot open target file
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isArchive {
			count++
			if err := processArchive(g, path, "", filepath.Dir(strings.TrimPrefix(path, dir)), dst, log); err != nil {
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			continue
		}

		md, enc, err := isMarkdownFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !md {
			log.Debug("Skipping file, not recognized as markdown or archive", zap.String("file", path))
			continue
		}

		count++
		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		g.Go(func() error {
			if err := processFile(g.ctx, path, src, enc, dst, log); err != nil {
				log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if count == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return ctx.Err()
}

// processFile converts single markdown file picking up sidecar metadata next to
// it when present.
func processFile(ctx context.Context, path, src string, enc srcEncoding, dst string, log *zap.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	sidecar, err := loadSidecar(path)
	if err != nil {
		return err
	}
	return processDocument(ctx, selectReader(file, enc), src, sidecar, dst, log)
}

// loadSidecar reads metadata file next to the markdown file, if any.
func loadSidecar(path string) (*content.Meta, error) {
	metaPath := strings.TrimSuffix(path, filepath.Ext(path)) + metaExt
	if _, err := os.Stat(metaPath); err != nil {
		return nil, nil
	}
	return content.LoadMeta(metaPath)
}

type archivedDocument struct {
	name string
	data []byte
}

// processArchive reads markdown files (and their sidecar metadata) under
// "pathIn" inside archive and schedules their conversion. Everything is read
// while archive is open, so conversions do not depend on its lifetime.
func processArchive(g *group, path, pathIn, pathOut, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(g.ctx)

	var opts []archive.Option
	if env.CodePage != nil {
		opts = append(opts, archive.WithCodePage(env.CodePage))
	}

	var docs []archivedDocument
	metas := make(map[string][]byte)

	err := archive.Walk(path, pathIn, func(archive string, e archive.Entry) error {
		if err := g.ctx.Err(); err != nil {
			return err
		}

		if strings.EqualFold(filepath.Ext(e.Name), metaExt) {
			data, err := readEntry(e, encUnknown)
			if err != nil {
				log.Warn("Skipping metadata in archive", zap.String("archive", archive), zap.String("path", e.Name), zap.Error(err))
				return nil
			}
			metas[strings.TrimSuffix(e.Name, filepath.Ext(e.Name))] = data
			return nil
		}

		md, enc, err := isMarkdownInArchive(e.Name, e.File)
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", archive), zap.String("path", e.Name), zap.Error(err))
			return nil
		}
		if !md {
			log.Debug("Skipping file, not recognized as markdown", zap.String("archive", archive), zap.String("file", e.Name))
			return nil
		}

		data, err := readEntry(e, enc)
		if err != nil {
			log.Error("Unable to read file in archive", zap.String("archive", archive), zap.String("file", e.Name), zap.Error(err))
			return nil
		}
		docs = append(docs, archivedDocument{name: e.Name, data: data})
		return nil
	})
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		log.Debug("Nothing to process", zap.String("archive", path))
		return nil
	}

	for _, d := range docs {
		var sidecar *content.Meta
		if data, ok := metas[strings.TrimSuffix(d.name, filepath.Ext(d.name))]; ok {
			if sidecar, err = content.ParseMeta(data); err != nil {
				log.Error("Unable to parse metadata in archive", zap.String("archive", path), zap.String("file", d.name), zap.Error(err))
				continue
			}
		}
		g.Go(func() error {
			if err := processDocument(g.ctx, bytes.NewReader(d.data), filepath.Join(pathOut, filepath.FromSlash(d.name)), sidecar, dst, log); err != nil {
				log.Error("Unable to process file in archive", zap.String("archive", path), zap.String("file", d.name), zap.Error(err))
			}
			return nil
		})
	}
	return nil
}

func readEntry(e archive.Entry, enc srcEncoding) ([]byte, error) {
	r, err := e.File.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(selectReader(r, enc))
}

// processDocument converts single markdown document. "src" is part of the
// source path (always including file name) relative to the original path.
// When actual file was specified it will be just base file name without a
// path. When looking inside archive or directory it will be relative path
// inside archive or directory (including base file name). "dst" is the
// destination directory where the converted file should be written.
func processDocument(ctx context.Context, r io.Reader, src string, sidecar *content.Meta, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var refID, outputName string

	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		// one broken document must not stop processing of others
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.String("ref_id", refID))
		}
	}(time.Now())

	doc, err := PrepareDocument(ctx, r, src, sidecar, log)
	if err != nil {
		return fmt.Errorf("unable to parse markdown source (%s): %w", src, err)
	}
	refID = doc.ID.String()

	// Determine output file name and path based on input and configuration.
	outputName = buildOutputPath(doc.Content, src, dst, env)

	if err := prepareOutput(outputName, env.Overwrite, log); err != nil {
		return err
	}

	if err := writeDocument(doc, outputName, &env.Cfg.Document, env); err != nil {
		return fmt.Errorf("unable to generate output: %w", err)
	}

	// Store conversion result for debugging
	env.Rpt.Store(fmt.Sprintf("result-%s%s", refID, filepath.Ext(outputName)), outputName)
	return nil
}

// prepareOutput makes sure output file could be written.
func prepareOutput(outputName string, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		return os.Remove(outputName)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// writeDocument creates output exclusively unless overwrite was requested,
// so two documents resolving to the same name cannot clobber each other.
func writeDocument(doc *Document, outputName string, cfg *config.DocumentConfig, env *state.LocalEnv) (err error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !env.Overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}
	out, err := os.OpenFile(outputName, flags, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("output file already exists: %s", outputName)
	}
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(outputName)
		}
	}()
	return doc.WriteTo(out, env.Format, cfg, env.Site)
}
