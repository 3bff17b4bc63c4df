package content

import (
	"strconv"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"mdjs/config"
)

// NewMarkdown returns goldmark configured according to document settings.
// Only parser is used, rendering is done separately.
func NewMarkdown(cfg *config.DocumentConfig) goldmark.Markdown {
	var exts []goldmark.Extender
	if cfg.Extensions.Table {
		exts = append(exts, extension.Table)
	}
	if cfg.Extensions.Strikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if cfg.Extensions.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if cfg.Extensions.TaskList {
		exts = append(exts, extension.TaskList)
	}

	var opts []parser.Option
	if cfg.Render.Attributes {
		opts = append(opts, parser.WithAttribute())
		exts = append(exts, ImageAttributes)
	}
	if cfg.Render.HeadingIDs {
		opts = append(opts, parser.WithAutoHeadingID())
	}
	return goldmark.New(goldmark.WithExtensions(exts...), goldmark.WithParserOptions(opts...))
}

// headingIDs generates readable heading ids and keeps them unique across
// every part of the document.
type headingIDs struct {
	used map[string]bool
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{used: make(map[string]bool)}
}

// Generate implements parser.IDs.
func (ids *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base := slug.Make(string(value))
	if base == "" {
		if kind == ast.KindHeading {
			base = "heading"
		} else {
			base = "id"
		}
	}
	id := base
	for i := 1; ids.used[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	ids.used[id] = true
	return []byte(id)
}

// Put implements parser.IDs.
func (ids *headingIDs) Put(value []byte) {
	ids.used[string(value)] = true
}

// KindImageAttributes is a temporary node holding "{...}" attributes written
// right after an image.
var KindImageAttributes = ast.NewNodeKind("ImageAttributes")

type imageAttributes struct {
	ast.BaseInline
}

func (n *imageAttributes) Kind() ast.NodeKind {
	return KindImageAttributes
}

func (n *imageAttributes) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type imageAttributesParser struct{}

func (p *imageAttributesParser) Trigger() []byte {
	return []byte{'{'}
}

func (p *imageAttributesParser) Parse(parent ast.Node, block text.Reader, _ parser.Context) ast.Node {
	if last := parent.LastChild(); last == nil || last.Kind() != ast.KindImage {
		return nil
	}
	attrs, ok := parser.ParseAttributes(block)
	if !ok {
		return nil
	}
	node := &imageAttributes{}
	for _, a := range attrs {
		node.SetAttribute(a.Name, a.Value)
	}
	return node
}

type imageAttributesTransformer struct{}

// Transform moves collected attributes to the images they follow.
func (t *imageAttributesTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	var found []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == KindImageAttributes {
			found = append(found, n)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	for _, n := range found {
		if img := n.PreviousSibling(); img != nil && img.Kind() == ast.KindImage {
			for _, a := range n.Attributes() {
				if _, exists := img.Attribute(a.Name); !exists {
					img.SetAttribute(a.Name, a.Value)
				}
			}
		}
		n.Parent().RemoveChild(n.Parent(), n)
	}
}

type imageAttributesExtension struct{}

func (e *imageAttributesExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(util.Prioritized(&imageAttributesParser{}, 500)),
		parser.WithASTTransformers(util.Prioritized(&imageAttributesTransformer{}, 500)),
	)
}

// ImageAttributes enables "![alt](src){width=100 .wide}" syntax.
var ImageAttributes goldmark.Extender = &imageAttributesExtension{}
