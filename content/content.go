// Package content turns markdown source into parsed document parts ready for
// rendering.
package content

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"mdjs/config"
)

// Part is a parsed piece of the document together with its source, goldmark
// nodes only keep offsets into it.
type Part struct {
	Source []byte
	Doc    ast.Node
}

// Content is a prepared markdown document.
type Content struct {
	SrcName string
	ID      uuid.UUID
	Meta    Meta
	Summary *Part // nil when document has no summary section
	Body    *Part
}

// Prepare reads, splits and parses markdown document.
func Prepare(ctx context.Context, r io.Reader, srcName string, cfg *config.DocumentConfig, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read markdown: %w", err)
	}

	parts, err := Split(data, cfg.SummaryTitle)
	if err != nil {
		return nil, err
	}

	c := &Content{
		SrcName: srcName,
		ID:      DocumentID(srcName),
	}

	if len(parts.Meta) > 0 {
		meta, err := ParseMeta(parts.Meta)
		if err != nil {
			return nil, err
		}
		c.Meta = *meta
	}

	md := NewMarkdown(cfg)
	// ids are shared so summary and body headings do not collide
	ids := newHeadingIDs()
	if parts.HasSummary {
		c.Summary = parse(md, parts.Summary, ids)
	}
	c.Body = parse(md, parts.Body, ids)

	log.Debug("Markdown prepared",
		zap.String("name", c.Name()),
		zap.Stringer("id", c.ID),
		zap.Int("meta_bytes", len(parts.Meta)),
		zap.Bool("summary", parts.HasSummary),
		zap.Int("body_bytes", len(parts.Body)),
	)
	return c, nil
}

func parse(md goldmark.Markdown, source []byte, ids parser.IDs) *Part {
	pc := parser.NewContext(parser.WithIDs(ids))
	return &Part{
		Source: source,
		Doc:    md.Parser().Parse(text.NewReader(source), parser.WithContext(pc)),
	}
}

// DocumentID is stable identifier derived from the source name, so repeated
// conversions of the same file produce the same scripts.
func DocumentID(srcName string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mdjs:"+filepath.ToSlash(srcName)))
}

// Name returns document name: from metadata if present, source file name
// without extension otherwise.
func (c *Content) Name() string {
	if c.Meta.Name != "" {
		return c.Meta.Name
	}
	base := path.Base(filepath.ToSlash(c.SrcName))
	if base == "." || base == "/" {
		return c.ID.String()
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// Title returns document title from metadata, first level one heading
// otherwise.
func (c *Content) Title() string {
	if c.Meta.Title != "" {
		return c.Meta.Title
	}
	if c.Body == nil {
		return ""
	}
	var title string
	_ = ast.Walk(c.Body.Doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
			title = plainText(h, c.Body.Source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// plainText collects text of inline children.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
