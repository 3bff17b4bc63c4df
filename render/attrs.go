package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"

	"mdjs/dom"
)

// Attribute allow lists, anything starting with "data-" passes regardless.
var (
	GlobalAttributeFilter = util.NewBytesFilter(
		[]byte("accesskey"),
		[]byte("autocapitalize"),
		[]byte("autofocus"),
		[]byte("class"),
		[]byte("contenteditable"),
		[]byte("dir"),
		[]byte("draggable"),
		[]byte("enterkeyhint"),
		[]byte("hidden"),
		[]byte("id"),
		[]byte("inert"),
		[]byte("inputmode"),
		[]byte("is"),
		[]byte("itemid"),
		[]byte("itemprop"),
		[]byte("itemref"),
		[]byte("itemscope"),
		[]byte("itemtype"),
		[]byte("lang"),
		[]byte("part"),
		[]byte("role"),
		[]byte("slot"),
		[]byte("spellcheck"),
		[]byte("style"),
		[]byte("tabindex"),
		[]byte("title"),
		[]byte("translate"),
	)

	HeadingAttributeFilter   = GlobalAttributeFilter
	ParagraphAttributeFilter = GlobalAttributeFilter
	CodeAttributeFilter      = GlobalAttributeFilter
	EmphasisAttributeFilter  = GlobalAttributeFilter

	BlockquoteAttributeFilter = GlobalAttributeFilter.Extend(
		[]byte("cite"),
	)
	ListAttributeFilter = GlobalAttributeFilter.Extend(
		[]byte("start"),
		[]byte("reversed"),
		[]byte("type"),
	)
	ListItemAttributeFilter = GlobalAttributeFilter.Extend(
		[]byte("value"),
	)
	ThematicAttributeFilter = GlobalAttributeFilter.Extend(
		[]byte("align"),
		[]byte("color"),
		[]byte("noshade"),
		[]byte("size"),
		[]byte("width"),
	)
	LinkAttributeFilter = GlobalAttributeFilter.Extend(
		[]byte("download"),
		[]byte("hreflang"),
		[]byte("media"),
		[]byte("ping"),
		[]byte("referrerpolicy"),
		[]byte("rel"),
		[]byte("shape"),
		[]byte("target"),
	)
	ImageAttributeFilter = GlobalAttributeFilter.Extend(
		[]byte("align"),
		[]byte("border"),
		[]byte("crossorigin"),
		[]byte("decoding"),
		[]byte("height"),
		[]byte("importance"),
		[]byte("intrinsicsize"),
		[]byte("ismap"),
		[]byte("loading"),
		[]byte("referrerpolicy"),
		[]byte("sizes"),
		[]byte("srcset"),
		[]byte("usemap"),
		[]byte("width"),
	)
)

var dataPrefix = []byte("data-")

// copyAttributes moves markdown attributes of the node to the element. "id"
// becomes element ID and "style" is parsed into inline style, the rest is
// kept as is when filter allows it.
func copyAttributes(e *dom.Element, n ast.Node, filter util.BytesFilter) {
	for _, attr := range n.Attributes() {
		if filter != nil && !filter.Contains(attr.Name) && !bytes.HasPrefix(attr.Name, dataPrefix) {
			continue
		}
		value := attributeValue(attr.Value)
		switch name := string(attr.Name); name {
		case "id":
			e.ID = value
		case "style":
			for _, p := range dom.ParseCSSText(value) {
				e.Style.Set(p.Name, p.Value)
			}
		default:
			e.SetAttr(name, value)
		}
	}
}

func attributeValue(v any) string {
	switch typed := v.(type) {
	case []byte:
		return string(typed)
	case string:
		return typed
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}

var (
	bDataImage = []byte("data:image/")
	bPng       = []byte("png;")
	bGif       = []byte("gif;")
	bJpeg      = []byte("jpeg;")
	bWebp      = []byte("webp;")
	bSvg       = []byte("svg+xml;")
	bJs        = []byte("javascript:")
	bVb        = []byte("vbscript:")
	bFile      = []byte("file:")
	bData      = []byte("data:")
)

func hasPrefix(s, prefix []byte) bool {
	return len(s) >= len(prefix) && bytes.EqualFold(s[:len(prefix)], prefix)
}

// IsDangerousURL reports whether url could execute code when used as link or
// image source. Inline images of common raster types and svg are allowed.
func IsDangerousURL(url []byte) bool {
	if hasPrefix(url, bDataImage) {
		v := url[len(bDataImage):]
		return !(hasPrefix(v, bPng) || hasPrefix(v, bGif) ||
			hasPrefix(v, bJpeg) || hasPrefix(v, bWebp) ||
			hasPrefix(v, bSvg))
	}
	return hasPrefix(url, bJs) || hasPrefix(url, bVb) ||
		hasPrefix(url, bFile) || hasPrefix(url, bData)
}
