package render

import (
	"io"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"

	"mdjs/dom"
	"mdjs/script"
)

// Renderer plugs the builder into goldmark so Markdown.Convert produces
// render script directly. The whole document becomes the main render
// function, there is no summary.
type Renderer struct {
	builder *Builder
	writer  *script.Writer
	site    []byte
}

// NewRenderer returns goldmark renderer producing render scripts. Site
// script, when not empty, is appended to every output.
func NewRenderer(b *Builder, w *script.Writer, site []byte) renderer.Renderer {
	return &Renderer{builder: b, writer: w, site: site}
}

func (r *Renderer) Render(w io.Writer, source []byte, n ast.Node) error {
	root := dom.NewElement("div", "")
	if err := r.builder.Build(n, source, root); err != nil {
		return err
	}
	return r.writer.Write(w, script.Document{
		Sheet: r.builder.opts.Sheet,
		Root:  root,
		Site:  r.site,
	})
}

// AddOptions ignores goldmark renderer options, everything is configured
// with Options.
func (r *Renderer) AddOptions(...renderer.Option) {}
