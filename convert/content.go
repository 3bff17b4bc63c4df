package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"mdjs/content"
	"mdjs/dom"
	"mdjs/misc"
	"mdjs/render"
	"mdjs/state"
	"mdjs/style"
)

// Document is prepared markdown content together with element trees built
// from it, everything output generators need.
type Document struct {
	*content.Content

	Summary *dom.Element // nil when source has no summary section
	Body    *dom.Element
	Sheet   *style.Sheet

	SiteName string
	SiteID   string
}

// LoadDocument prepares single markdown file, sidecar metadata next to it is
// picked up.
func LoadDocument(ctx context.Context, path string, log *zap.Logger) (*Document, error) {
	md, enc, err := isMarkdownFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to check file type: %w", err)
	}
	if !md {
		return nil, fmt.Errorf("input was not recognized as markdown document (%s)", path)
	}
	sidecar, err := loadSidecar(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return PrepareDocument(ctx, selectReader(file, enc), filepath.Base(path), sidecar, log)
}

// PrepareDocument reads and parses markdown, merges sidecar metadata (front
// matter wins) and builds element trees for summary and body.
func PrepareDocument(ctx context.Context, r io.Reader, srcName string, sidecar *content.Meta, log *zap.Logger) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)
	cfg := &env.Cfg.Document

	c, err := content.Prepare(ctx, r, srcName, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare markdown: %w", err)
	}
	c.Meta.Merge(sidecar)

	doc := &Document{
		Content:  c,
		Sheet:    env.Sheet,
		SiteName: cfg.Site.Name,
		SiteID:   cfg.Site.ID,
	}
	if doc.Sheet == nil {
		doc.Sheet = style.NewSheet("")
	}
	if len(doc.SiteName) == 0 {
		doc.SiteName = c.Name()
	}
	if len(doc.SiteID) == 0 {
		doc.SiteID = c.ID.String()
	}

	b := render.NewBuilder(render.Options{
		Unsafe:              cfg.Render.Unsafe,
		HardWraps:           cfg.Render.HardWraps,
		EastAsianLineBreaks: cfg.Render.EastAsianLineBreaks,
		HeadingIDs:          cfg.Render.HeadingIDs,
		Sheet:               doc.Sheet,
	}, log)

	if c.Summary != nil {
		doc.Summary = dom.NewElement(cfg.Container.Type, cfg.Container.ID+"Summary")
		doc.Summary.Style = cfg.Container.Style.Clone()
		if err := b.Build(c.Summary.Doc, c.Summary.Source, doc.Summary); err != nil {
			return nil, fmt.Errorf("unable to build summary: %w", err)
		}
	}
	doc.Body = dom.NewElement(cfg.Container.Type, cfg.Container.ID)
	doc.Body.Style = cfg.Container.Style.Clone()
	if err := b.Build(c.Body.Doc, c.Body.Source, doc.Body); err != nil {
		return nil, fmt.Errorf("unable to build body: %w", err)
	}

	// Save prepared document for debugging
	if env.Rpt != nil {
		tmpDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
		if err != nil {
			return nil, fmt.Errorf("unable to create temporary directory: %w", err)
		}
		env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), c.ID), tmpDir)

		baseSrcName := filepath.Base(srcName)
		if err := os.WriteFile(filepath.Join(tmpDir, baseSrcName+"_body"), c.Body.Source, 0644); err != nil {
			return nil, fmt.Errorf("unable to write source for debugging: %w", err)
		}
		if err := os.WriteFile(filepath.Join(tmpDir, baseSrcName+"_prepared"), []byte(doc.String()), 0644); err != nil {
			return nil, fmt.Errorf("unable to write prepared doc for debugging: %w", err)
		}
	}
	return doc, nil
}
