// Package script emits JS render scripts for the azul DOM host.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"mdjs/config"
	"mdjs/dom"
	"mdjs/style"
)

// Options of the emitted script.
type Options struct {
	StyleVar      string // name of the style sheet variable
	SiteName      string
	SiteID        string
	Container     config.ContainerConfig
	DebugComments bool
}

// Document is everything a single render script is made of.
type Document struct {
	Sheet   *style.Sheet
	Root    *dom.Element // children are placed into container
	Summary *dom.Element // optional
	Site    []byte       // appended verbatim
}

// Writer emits render scripts, it is safe to use from multiple goroutines.
type Writer struct {
	opts Options
}

func NewWriter(opts Options) *Writer {
	if opts.StyleVar == "" {
		opts.StyleVar = style.DefaultVariable
	}
	if opts.Container.ID == "" {
		opts.Container.ID = "mdDiv"
	}
	if opts.Container.Type == "" {
		opts.Container.Type = "div"
	}
	return &Writer{opts: opts}
}

// Write emits complete render script for the document.
func (w *Writer) Write(out io.Writer, doc Document) error {
	if doc.Root == nil {
		return errors.New("document has no element tree")
	}
	if doc.Sheet == nil {
		doc.Sheet = style.NewSheet("")
	}

	bw := bufio.NewWriter(out)
	fmt.Fprintf(bw, "let site = {\n    name: %s,\n    id: %s,\n};\n", style.QuoteJS(w.opts.SiteName), style.QuoteJS(w.opts.SiteID))

	w.function(bw, "render", w.opts.Container.ID, doc.Sheet, doc.Root)
	if doc.Summary != nil {
		w.function(bw, "summary", w.opts.Container.ID+"Summary", doc.Sheet, doc.Summary)
	}
	if len(doc.Site) > 0 {
		bw.Write(doc.Site)
		if doc.Site[len(doc.Site)-1] != '\n' {
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func (w *Writer) function(bw *bufio.Writer, name, container string, sheet *style.Sheet, root *dom.Element) {
	fmt.Fprintf(bw, "site.%s = function () {\n", name)
	_ = style.WriteJS(bw, w.opts.StyleVar, sheet)
	w.container(bw, container)

	e := &emitter{w: bw, opts: &w.opts, sheet: sheet}
	for _, c := range root.Children() {
		e.node(c, container)
	}
	fmt.Fprintf(bw, "return %s;\n};\n", container)
}

func (w *Writer) container(bw *bufio.Writer, id string) {
	fmt.Fprintf(bw, "let %sObj = {\n\ttyp: %s,\n\tid: %s,\n\tstyle: {\n", id, style.QuoteJS(w.opts.Container.Type), style.QuoteJS(id))
	for _, p := range w.opts.Container.Style {
		fmt.Fprintf(bw, "\t\t%s: %s,\n", propertyName(p.Name), style.QuoteJS(p.Value))
	}
	fmt.Fprintf(bw, "\t},\n};\nlet %s = azul.addElement(%sObj);\n", id, id)
}

// emitter writes statements for one function body, element variables are
// numbered from 1 in document order.
type emitter struct {
	w     *bufio.Writer
	opts  *Options
	sheet *style.Sheet
	count int
}

func (e *emitter) next() string {
	e.count++
	return "el" + strconv.Itoa(e.count)
}

func (e *emitter) node(n *dom.Element, parent string) {
	name := e.next()
	if e.opts.DebugComments {
		typ := n.Type
		if n.IsText() {
			typ = "#text"
		}
		fmt.Fprintf(e.w, "// dbg -- el: %s parent:%s type:%s\n", name, parent, typ)
	}

	if n.IsText() {
		fmt.Fprintf(e.w, "const %s=document.createTextNode(%s);\n", name, style.QuoteJS(n.Text))
		fmt.Fprintf(e.w, "%s.appendChild(%s);\n", parent, name)
		return
	}

	fmt.Fprintf(e.w, "let %s=document.createElement(%s);\n", name, style.QuoteJS(n.Type))
	if n.StyleKey != "" && e.sheet.Has(n.StyleKey) {
		fmt.Fprintf(e.w, "Object.assign(%s.style, %s);\n", name, member(e.opts.StyleVar, n.StyleKey))
	}
	if n.Style.Len() > 0 {
		fmt.Fprintf(e.w, "Object.assign(%s.style, %s);\n", name, n.Style.String())
	}
	for _, a := range n.Attrs {
		fmt.Fprintf(e.w, "%s.setAttribute(%s, %s);\n", name, style.QuoteJS(a.Name), style.QuoteJS(a.Value))
	}
	if n.ID != "" {
		fmt.Fprintf(e.w, "%s.id=%s;\n", name, style.QuoteJS(n.ID))
	}

	if n.TextOnly() {
		fmt.Fprintf(e.w, "%s.textContent=%s;\n", name, style.QuoteJS(n.TextContent()))
	} else {
		for _, c := range n.Children() {
			e.node(c, name)
		}
	}
	fmt.Fprintf(e.w, "%s.appendChild(%s);\n", parent, name)
}

// member returns property access expression, bracket form is used for keys
// which are not identifiers.
func member(object, key string) string {
	if style.IsIdentifier(key) {
		return object + "." + key
	}
	return object + "[" + style.QuoteJS(key) + "]"
}

func propertyName(name string) string {
	if style.IsIdentifier(name) {
		return name
	}
	return style.QuoteJS(name)
}
