// Package inspect implements diagnostics command showing how markdown
// document is seen by the converter.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	cli "github.com/urfave/cli/v3"
	"github.com/yuin/goldmark/ast"
	"go.uber.org/zap"
	"golang.org/x/term"

	"mdjs/config"
	"mdjs/convert"
	"mdjs/dom"
	"mdjs/state"
	"mdjs/style"
	"mdjs/utils/debug"
)

const defaultWidth = 80

// Options select report sections.
type Options struct {
	Preview  bool // render markdown for terminal
	Colors   bool
	Width    int
	AST      bool
	Tree     bool
	Style    bool
	Variable string // style sheet variable name
}

func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("inspect")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	if env.Sheet, err = style.Resolve(env.Cfg.Document.Style.Name, env.Log.Named("style")); err != nil {
		return fmt.Errorf("unable to load style %q: %w", env.Cfg.Document.Style.Name, err)
	}

	doc, err := convert.LoadDocument(ctx, src, log)
	if err != nil {
		return err
	}

	opts := Options{
		Preview:  !cmd.Bool("no-preview"),
		Width:    cmd.Int("width"),
		AST:      cmd.Bool("ast"),
		Tree:     cmd.Bool("tree"),
		Style:    cmd.Bool("style"),
		Variable: env.Cfg.Document.Style.Variable,
	}
	out := cmd.Root().Writer
	if f, ok := out.(*os.File); ok {
		opts.Colors = config.EnableColorOutput(f)
		if opts.Width <= 0 && opts.Colors {
			if w, _, err := term.GetSize(int(f.Fd())); err == nil {
				opts.Width = w
			}
		}
	}

	log.Debug("Inspecting document", zap.String("source", src), zap.Bool("preview", opts.Preview), zap.Bool("colors", opts.Colors))
	return Write(out, doc, opts)
}

// Write prints document report.
func Write(w io.Writer, doc *convert.Document, opts Options) error {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Document %q", doc.SrcName)
	tw.Field(1, "id", doc.ID.String())
	tw.Field(1, "name", doc.Name())
	tw.Field(1, "title", doc.Title())
	tw.Field(1, "author", doc.Meta.Author)
	tw.Field(1, "date", doc.Meta.Date.String())
	tw.Field(1, "lang", doc.Meta.Lang)
	tw.List(1, "Tags", doc.Meta.Tags)
	if doc.Summary != nil {
		tw.Line(1, "summary: %d bytes", len(doc.Content.Summary.Source))
	}
	tw.Line(1, "body: %d bytes", len(doc.Content.Body.Source))
	if _, err := io.WriteString(w, tw.String()); err != nil {
		return err
	}

	if opts.Preview {
		// summary is what site shows first
		part := doc.Content.Body
		if doc.Content.Summary != nil {
			part = doc.Content.Summary
		}
		text, err := preview(part.Source, opts)
		if err != nil {
			return fmt.Errorf("unable to render preview: %w", err)
		}
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}

	if opts.AST {
		tw := debug.NewTreeWriter()
		if doc.Content.Summary != nil {
			tw.Line(0, "Summary AST")
			dumpAST(tw, doc.Content.Summary.Doc, doc.Content.Summary.Source, 1)
		}
		tw.Line(0, "Body AST")
		dumpAST(tw, doc.Content.Body.Doc, doc.Content.Body.Source, 1)
		if _, err := io.WriteString(w, tw.String()); err != nil {
			return err
		}
	}

	if opts.Tree {
		tw := debug.NewTreeWriter()
		if doc.Summary != nil {
			tw.Block(0, "Summary tree", dom.Dump(doc.Summary))
		}
		tw.Block(0, "Body tree", dom.Dump(doc.Body))
		if _, err := io.WriteString(w, tw.String()); err != nil {
			return err
		}
	}

	if opts.Style {
		fmt.Fprintf(w, "// style sheet %q\n", doc.Sheet.Name)
		if err := style.WriteJS(w, opts.Variable, doc.Sheet); err != nil {
			return err
		}
	}
	return nil
}

func preview(source []byte, opts Options) (string, error) {
	options := []glamour.TermRendererOption{glamour.WithStandardStyle(styles.NoTTYStyle)}
	if opts.Colors {
		options = []glamour.TermRendererOption{glamour.WithAutoStyle()}
	}
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	options = append(options, glamour.WithWordWrap(width))

	r, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", err
	}
	return r.Render(string(source))
}

// dumpAST writes goldmark node with its children, text segments are quoted.
func dumpAST(tw *debug.TreeWriter, n ast.Node, source []byte, depth int) {
	line := n.Kind().String()
	switch t := n.(type) {
	case *ast.Heading:
		line += fmt.Sprintf(" level=%d", t.Level)
	case *ast.List:
		line += fmt.Sprintf(" ordered=%t start=%d tight=%t", t.IsOrdered(), t.Start, t.IsTight)
	case *ast.Link:
		line += fmt.Sprintf(" destination=%q", t.Destination)
	case *ast.Image:
		line += fmt.Sprintf(" destination=%q", t.Destination)
	case *ast.FencedCodeBlock:
		if lang := t.Language(source); lang != nil {
			line += fmt.Sprintf(" language=%q", lang)
		}
	case *ast.Emphasis:
		line += fmt.Sprintf(" level=%d", t.Level)
	}
	tw.Line(depth, "%s", line)

	for _, a := range n.Attributes() {
		tw.Line(depth+1, "@%s=%s", a.Name, attributeText(a.Value))
	}
	switch t := n.(type) {
	case *ast.Text:
		tw.Field(depth+1, "text", string(t.Segment.Value(source)))
	case *ast.String:
		tw.Field(depth+1, "text", string(t.Value))
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		var sb strings.Builder
		lines := n.Lines()
		for i := range lines.Len() {
			seg := lines.At(i)
			sb.Write(seg.Value(source))
		}
		tw.Field(depth+1, "lines", sb.String())
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		dumpAST(tw, c, source, depth+1)
	}
}

func attributeText(v any) string {
	switch t := v.(type) {
	case []byte:
		return fmt.Sprintf("%q", t)
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprint(t)
	}
}
