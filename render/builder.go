// Package render builds element descriptor trees from goldmark documents.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"

	"mdjs/common"
	"mdjs/dom"
	"mdjs/style"
)

// Options controls how markdown nodes become elements.
type Options struct {
	Unsafe              bool // keep raw HTML and dangerous URLs
	HardWraps           bool // soft line breaks become <br>
	EastAsianLineBreaks common.EastAsianLineBreaks
	HeadingIDs          bool // headings without explicit id get slug of their text
	Sheet               *style.Sheet
}

// Builder converts goldmark AST into dom elements. It keeps no state between
// Build calls and could be shared.
type Builder struct {
	opts Options
	log  *zap.Logger
}

func NewBuilder(opts Options, log *zap.Logger) *Builder {
	return &Builder{opts: opts, log: log.Named("render")}
}

func (b *Builder) Options() Options {
	return b.opts
}

// Build appends elements produced from children of doc to root.
func (b *Builder) Build(doc ast.Node, source []byte, root *dom.Element) error {
	if doc == nil {
		return errors.New("nothing to build, document is nil")
	}
	if root == nil || root.IsText() {
		return errors.New("root must be an element")
	}
	st := &state{
		Builder: b,
		source:  source,
		stack:   []*dom.Element{root},
		pushed:  make(map[ast.Node]int),
	}
	if err := ast.Walk(doc, st.visit); err != nil {
		return fmt.Errorf("unable to build element tree: %w", err)
	}
	return nil
}

// state is a single Build pass. Nodes which open elements remember how many
// of them were pushed so leaving the node restores the stack.
type state struct {
	*Builder
	source []byte
	stack  []*dom.Element
	pushed map[ast.Node]int
}

func (s *state) top() *dom.Element {
	return s.stack[len(s.stack)-1]
}

// styleKey returns key when sheet has a rule for it (or there is no sheet).
func (s *state) styleKey(key string) string {
	if key == "" || s.opts.Sheet == nil || s.opts.Sheet.Has(key) {
		return key
	}
	return ""
}

func (s *state) newElement(typ, key string) *dom.Element {
	e := dom.NewElement(typ, "")
	e.StyleKey = s.styleKey(key)
	return e
}

// add appends new element to the current parent.
func (s *state) add(typ, key string) (*dom.Element, error) {
	e := s.newElement(typ, key)
	if err := s.top().AppendChild(e); err != nil {
		return nil, err
	}
	return e, nil
}

// open appends new element and makes it current parent until n is left.
func (s *state) open(n ast.Node, typ, key string) (*dom.Element, error) {
	e, err := s.add(typ, key)
	if err != nil {
		return nil, err
	}
	s.push(n, e)
	return e, nil
}

func (s *state) push(n ast.Node, e *dom.Element) {
	s.stack = append(s.stack, e)
	s.pushed[n]++
}

func (s *state) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		if c := s.pushed[n]; c > 0 {
			s.stack = s.stack[:len(s.stack)-c]
			delete(s.pushed, n)
		}
		return ast.WalkContinue, nil
	}
	status, err := s.enter(n)
	if err != nil {
		return ast.WalkStop, fmt.Errorf("%s: %w", n.Kind(), err)
	}
	return status, nil
}

func (s *state) enter(node ast.Node) (ast.WalkStatus, error) {
	switch n := node.(type) {
	case *ast.Document, *ast.TextBlock:
		// children go straight into the current parent

	case *ast.Heading:
		key := "h" + strconv.Itoa(n.Level)
		e, err := s.open(n, key, key)
		if err != nil {
			return ast.WalkStop, err
		}
		copyAttributes(e, n, HeadingAttributeFilter)
		if e.ID == "" && s.opts.HeadingIDs {
			e.ID = slug.Make(textOf(n, s.source))
		}

	case *ast.Paragraph:
		e, err := s.open(n, "p", "p")
		if err != nil {
			return ast.WalkStop, err
		}
		copyAttributes(e, n, ParagraphAttributeFilter)

	case *ast.Blockquote:
		e, err := s.open(n, "blockquote", "block")
		if err != nil {
			return ast.WalkStop, err
		}
		copyAttributes(e, n, BlockquoteAttributeFilter)

	case *ast.CodeBlock:
		return ast.WalkSkipChildren, s.codeBlock(n, nil)

	case *ast.FencedCodeBlock:
		return ast.WalkSkipChildren, s.codeBlock(n, n.Language(s.source))

	case *ast.List:
		typ := "ul"
		if n.IsOrdered() {
			typ = "ol"
		}
		e, err := s.open(n, typ, typ)
		if err != nil {
			return ast.WalkStop, err
		}
		if n.IsOrdered() && n.Start != 1 {
			e.SetAttr("start", strconv.Itoa(n.Start))
		}
		copyAttributes(e, n, ListAttributeFilter)

	case *ast.ListItem:
		e, err := s.open(n, "li", "li")
		if err != nil {
			return ast.WalkStop, err
		}
		copyAttributes(e, n, ListItemAttributeFilter)

	case *ast.ThematicBreak:
		e, err := s.add("hr", "hr")
		if err != nil {
			return ast.WalkStop, err
		}
		copyAttributes(e, n, ThematicAttributeFilter)

	case *ast.HTMLBlock:
		var sb strings.Builder
		writeLines(&sb, n.Lines(), s.source)
		if n.HasClosure() {
			sb.Write(n.ClosureLine.Value(s.source))
		}
		return ast.WalkSkipChildren, s.rawHTML(sb.String())

	case *ast.RawHTML:
		var sb strings.Builder
		writeLines(&sb, n.Segments, s.source)
		return ast.WalkSkipChildren, s.rawHTML(sb.String())

	case *ast.Text:
		return ast.WalkContinue, s.text(n)

	case *ast.String:
		value := n.Value
		if !n.IsRaw() && !n.IsCode() {
			value = unescape(value)
		}
		return ast.WalkContinue, s.top().AppendText(string(value))

	case *ast.CodeSpan:
		e, err := s.add("code", "code")
		if err != nil {
			return ast.WalkStop, err
		}
		copyAttributes(e, n, CodeAttributeFilter)
		return ast.WalkSkipChildren, e.AppendText(codeSpanText(n, s.source))

	case *ast.Emphasis:
		typ := "em"
		if n.Level == 2 {
			typ = "strong"
		}
		e, err := s.open(n, typ, typ)
		if err != nil {
			return ast.WalkStop, err
		}
		copyAttributes(e, n, EmphasisAttributeFilter)

	case *ast.Link:
		e, err := s.open(n, "a", "a")
		if err != nil {
			return ast.WalkStop, err
		}
		s.setURL(e, "href", n.Destination)
		if len(n.Title) > 0 {
			e.SetAttr("title", string(unescape(n.Title)))
		}
		copyAttributes(e, n, LinkAttributeFilter)

	case *ast.AutoLink:
		url := n.URL(s.source)
		if n.AutoLinkType == ast.AutoLinkEmail && !hasPrefix(url, []byte("mailto:")) {
			url = append([]byte("mailto:"), url...)
		}
		e, err := s.add("a", "a")
		if err != nil {
			return ast.WalkStop, err
		}
		s.setURL(e, "href", url)
		return ast.WalkSkipChildren, e.AppendText(string(n.Label(s.source)))

	case *ast.Image:
		e, err := s.add("img", "img")
		if err != nil {
			return ast.WalkStop, err
		}
		s.setURL(e, "src", n.Destination)
		e.SetAttr("alt", textOf(n, s.source))
		if len(n.Title) > 0 {
			e.SetAttr("title", string(unescape(n.Title)))
		}
		copyAttributes(e, n, ImageAttributeFilter)
		return ast.WalkSkipChildren, nil

	case *east.Strikethrough:
		if _, err := s.open(n, "del", "del"); err != nil {
			return ast.WalkStop, err
		}

	case *east.Table:
		e, err := s.open(n, "table", "table")
		if err != nil {
			return ast.WalkStop, err
		}
		copyAttributes(e, n, GlobalAttributeFilter)

	case *east.TableHeader:
		head, err := s.open(n, "thead", "")
		if err != nil {
			return ast.WalkStop, err
		}
		row := s.newElement("tr", "")
		if err := head.AppendChild(row); err != nil {
			return ast.WalkStop, err
		}
		s.push(n, row)

	case *east.TableRow:
		body := s.top().LastChild()
		if body == nil || body.Type != "tbody" {
			var err error
			if body, err = s.add("tbody", ""); err != nil {
				return ast.WalkStop, err
			}
		}
		s.push(n, body)
		if _, err := s.open(n, "tr", ""); err != nil {
			return ast.WalkStop, err
		}

	case *east.TableCell:
		typ := "td"
		if _, ok := n.Parent().(*east.TableHeader); ok {
			typ = "th"
		}
		e, err := s.open(n, typ, typ)
		if err != nil {
			return ast.WalkStop, err
		}
		if n.Alignment != east.AlignNone {
			e.Style.Set("textAlign", n.Alignment.String())
		}

	case *east.TaskCheckBox:
		e, err := s.add("input", "task")
		if err != nil {
			return ast.WalkStop, err
		}
		e.SetAttr("type", "checkbox")
		e.SetAttr("disabled", "")
		if n.IsChecked {
			e.SetAttr("checked", "")
		}

	default:
		s.log.Debug("Unsupported node, rendering its children", zap.Stringer("kind", n.Kind()))
	}
	return ast.WalkContinue, nil
}

func (s *state) text(n *ast.Text) error {
	value := n.Segment.Value(s.source)
	if n.IsRaw() {
		if err := s.top().AppendText(string(value)); err != nil {
			return err
		}
	} else if err := s.top().AppendText(string(unescape(value))); err != nil {
		return err
	}

	switch {
	case n.HardLineBreak() || (n.SoftLineBreak() && s.opts.HardWraps):
		_, err := s.add("br", "")
		return err
	case n.SoftLineBreak():
		if s.opts.EastAsianLineBreaks == common.EastAsianLineBreaksNone {
			return s.top().AppendText(" ")
		}
		if s.keepBreak(n, value) {
			return s.top().AppendText("\n")
		}
	}
	return nil
}

func (s *state) keepBreak(n *ast.Text, value []byte) bool {
	if len(value) == 0 {
		return true
	}
	sibling, ok := n.NextSibling().(*ast.Text)
	if !ok {
		return true
	}
	next := sibling.Segment.Value(s.source)
	if len(next) == 0 {
		return true
	}
	last, _ := utf8.DecodeLastRune(value)
	first, _ := utf8.DecodeRune(next)
	return keepSoftLineBreak(s.opts.EastAsianLineBreaks, last, first)
}

func (s *state) setURL(e *dom.Element, name string, url []byte) {
	if !s.opts.Unsafe && IsDangerousURL(url) {
		s.log.Debug("Dangerous URL dropped", zap.String("attr", name), zap.ByteString("url", url))
		return
	}
	e.SetAttr(name, string(util.URLEscape(url, true)))
}

func (s *state) codeBlock(n ast.Node, lang []byte) error {
	pre, err := s.add("pre", "pre")
	if err != nil {
		return err
	}
	code := s.newElement("code", "code")
	if len(lang) > 0 {
		code.SetAttr("class", "language-"+string(lang))
	}
	if err := pre.AppendChild(code); err != nil {
		return err
	}
	var sb strings.Builder
	writeLines(&sb, n.Lines(), s.source)
	return code.AppendText(sb.String())
}

func (s *state) rawHTML(fragment string) error {
	if !s.opts.Unsafe {
		s.log.Debug("Raw HTML omitted", zap.String("html", fragment))
		return nil
	}
	parent := s.top()
	nodes, err := dom.FromHTML(fragment, parent.Type)
	if err != nil {
		return err
	}
	for _, e := range nodes {
		if e.IsText() {
			err = parent.AppendText(e.Text)
		} else {
			err = parent.AppendChild(e)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeLines(sb *strings.Builder, lines *text.Segments, source []byte) {
	for i := range lines.Len() {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
}

// codeSpanText joins raw segments of code span, line endings become spaces.
func codeSpanText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var value []byte
		switch t := c.(type) {
		case *ast.Text:
			value = t.Segment.Value(source)
		case *ast.String:
			value = t.Value
		default:
			continue
		}
		if v, ok := bytes.CutSuffix(value, []byte("\n")); ok {
			sb.Write(v)
			sb.WriteByte(' ')
			continue
		}
		sb.Write(value)
	}
	return sb.String()
}

// textOf collects plain text of inline descendants.
func textOf(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(unescape(t.Segment.Value(source)))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// unescape resolves backslash escapes and character references.
func unescape(v []byte) []byte {
	if bytes.IndexByte(v, '\\') < 0 && bytes.IndexByte(v, '&') < 0 {
		return v
	}
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
}
