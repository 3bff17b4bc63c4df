package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap/zaptest"

	"mdjs/common"
	"mdjs/dom"
	"mdjs/script"
	"mdjs/style"
)

func build(t *testing.T, src string, opts Options) *dom.Element {
	t.Helper()
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))
	root := dom.NewElement("div", "")
	require.NoError(t, NewBuilder(opts, zaptest.NewLogger(t)).Build(doc, source, root))
	return root
}

func types(e *dom.Element) []string {
	var res []string
	for _, c := range e.Children() {
		if c.IsText() {
			res = append(res, "#text")
			continue
		}
		res = append(res, c.Type)
	}
	return res
}

func find(root *dom.Element, typ string) []*dom.Element {
	var res []*dom.Element
	_ = dom.Walk(root, func(e *dom.Element, entering bool) (dom.WalkStatus, error) {
		if entering && !e.IsText() && e.Type == typ {
			res = append(res, e)
		}
		return dom.WalkContinue, nil
	})
	return res
}

func attr(t *testing.T, e *dom.Element, name string) string {
	t.Helper()
	v, ok := e.Attr(name)
	require.True(t, ok, "attribute %q is missing on %s", name, e.Type)
	return v
}

func TestBuildBlocks(t *testing.T) {
	root := build(t, "# Title\n\nPara\n\n> quote\n\n---\n\n```go\nx := 1\n```\n\n    indented\n", Options{})
	require.Equal(t, []string{"h1", "p", "blockquote", "hr", "pre", "pre"}, types(root))

	kids := root.Children()
	assert.Equal(t, "h1", kids[0].StyleKey)
	assert.Equal(t, "Title", kids[0].TextContent())
	assert.Equal(t, "p", kids[1].StyleKey)
	assert.True(t, kids[1].TextOnly())

	assert.Equal(t, "block", kids[2].StyleKey)
	assert.Equal(t, []string{"p"}, types(kids[2]))
	assert.Equal(t, "quote", kids[2].TextContent())

	code := kids[4].FirstChild()
	require.NotNil(t, code)
	assert.Equal(t, "code", code.Type)
	assert.Equal(t, "code", code.StyleKey)
	assert.Equal(t, "language-go", attr(t, code, "class"))
	assert.Equal(t, "x := 1\n", code.TextContent())

	code = kids[5].FirstChild()
	_, ok := code.Attr("class")
	assert.False(t, ok)
	assert.Equal(t, "indented\n", code.TextContent())
}

func TestBuildLists(t *testing.T) {
	root := build(t, "3. x\n4. y\n\n- a\n\n- b\n", Options{})
	require.Equal(t, []string{"ol", "ul"}, types(root))

	ol := root.FirstChild()
	assert.Equal(t, "3", attr(t, ol, "start"))
	assert.Equal(t, "ol", ol.StyleKey)
	require.Equal(t, []string{"li", "li"}, types(ol))
	// tight list items keep their text directly
	assert.True(t, ol.FirstChild().TextOnly())
	assert.Equal(t, "x", ol.FirstChild().TextContent())

	ul := root.LastChild()
	require.Equal(t, []string{"li", "li"}, types(ul))
	assert.Equal(t, []string{"p"}, types(ul.FirstChild()))
	assert.Equal(t, "li", ul.FirstChild().StyleKey)

	root = build(t, "1. one\n", Options{})
	_, ok := root.FirstChild().Attr("start")
	assert.False(t, ok)
}

func TestBuildInline(t *testing.T) {
	src := "See [go](https://go.dev \"Go site\"), [bad](javascript:alert(1)), <mail@example.com>, " +
		"`x < y` and ![alt *text*](pic.png \"Pic\") ~~gone~~ *em* **strong**\n"
	root := build(t, src, Options{})
	require.Equal(t, []string{"p"}, types(root))

	links := find(root, "a")
	require.Len(t, links, 3)
	assert.Equal(t, "https://go.dev", attr(t, links[0], "href"))
	assert.Equal(t, "Go site", attr(t, links[0], "title"))
	assert.Equal(t, "go", links[0].TextContent())
	assert.Equal(t, "a", links[0].StyleKey)

	_, ok := links[1].Attr("href")
	assert.False(t, ok, "dangerous url must be dropped")
	assert.Equal(t, "bad", links[1].TextContent())

	assert.Equal(t, "mailto:mail@example.com", attr(t, links[2], "href"))
	assert.Equal(t, "mail@example.com", links[2].TextContent())

	code := find(root, "code")
	require.Len(t, code, 1)
	assert.Equal(t, "x < y", code[0].TextContent())

	img := find(root, "img")
	require.Len(t, img, 1)
	assert.Equal(t, "pic.png", attr(t, img[0], "src"))
	assert.Equal(t, "alt text", attr(t, img[0], "alt"))
	assert.Equal(t, "Pic", attr(t, img[0], "title"))
	assert.Zero(t, img[0].ChildCount())

	del := find(root, "del")
	require.Len(t, del, 1)
	assert.Equal(t, "gone", del[0].TextContent())

	// emphasis inside image alt text does not produce elements
	em := find(root, "em")
	require.Len(t, em, 1)
	assert.Equal(t, "em", em[0].TextContent())
	strong := find(root, "strong")
	require.Len(t, strong, 1)
	assert.Equal(t, "strong", strong[0].StyleKey)
}

func TestBuildUnsafe(t *testing.T) {
	src := "[bad](javascript:alert(1))\n\n<div class=\"x\" onclick=\"evil()\">hi</div>\n\ntext <b>bold</b>\n"

	root := build(t, src, Options{})
	require.Equal(t, []string{"p", "p"}, types(root))
	assert.Equal(t, "text bold", root.LastChild().TextContent())

	root = build(t, src, Options{Unsafe: true})
	links := find(root, "a")
	require.Len(t, links, 1)
	assert.Equal(t, "javascript:alert(1)", attr(t, links[0], "href"))

	divs := find(root, "div")
	require.Len(t, divs, 2) // root and raw block
	div := divs[1]
	assert.Equal(t, "x", attr(t, div, "class"))
	_, ok := div.Attr("onclick")
	assert.False(t, ok)
	assert.Equal(t, "hi", div.TextContent())

	p := root.LastChild()
	assert.Len(t, find(p, "b"), 1)
	assert.Equal(t, "text bold", p.TextContent())
}

func TestBuildTable(t *testing.T) {
	root := build(t, "| a | b |\n|:--|--:|\n| 1 | 2 |\n| 3 | 4 |\n", Options{})
	tables := find(root, "table")
	require.Len(t, tables, 1)
	table := tables[0]
	assert.Equal(t, []string{"thead", "tbody"}, types(table))
	assert.Len(t, find(table, "tr"), 3)

	th := find(table, "th")
	require.Len(t, th, 2)
	v, _ := th[0].Style.Get("textAlign")
	assert.Equal(t, "left", v)
	assert.Equal(t, "a", th[0].TextContent())

	td := find(table, "td")
	require.Len(t, td, 4)
	v, _ = td[1].Style.Get("textAlign")
	assert.Equal(t, "right", v)
	assert.Equal(t, "1", td[0].TextContent())
	assert.Equal(t, "td", td[0].StyleKey)
}

func TestBuildTaskList(t *testing.T) {
	root := build(t, "- [x] done\n- [ ] todo\n", Options{})
	inputs := find(root, "input")
	require.Len(t, inputs, 2)
	for _, in := range inputs {
		assert.Equal(t, "checkbox", attr(t, in, "type"))
		assert.Equal(t, "", attr(t, in, "disabled"))
		assert.Equal(t, "task", in.StyleKey)
	}
	_, checked := inputs[0].Attr("checked")
	assert.True(t, checked)
	_, checked = inputs[1].Attr("checked")
	assert.False(t, checked)
	assert.Contains(t, inputs[0].Parent().TextContent(), "done")
}

func TestBuildLineBreaks(t *testing.T) {
	p := build(t, "a  \nb\n", Options{}).FirstChild()
	assert.Equal(t, []string{"#text", "br", "#text"}, types(p))

	p = build(t, "a\nb\n", Options{}).FirstChild()
	assert.Equal(t, []string{"#text"}, types(p), "segments are aggregated")
	assert.Equal(t, "a b", p.TextContent())

	p = build(t, "a\nb\n", Options{HardWraps: true}).FirstChild()
	assert.Equal(t, []string{"#text", "br", "#text"}, types(p))

	tests := []struct {
		name string
		mode common.EastAsianLineBreaks
		src  string
		want string
	}{
		{"none", common.EastAsianLineBreaksNone, "日本\n語\n", "日本 語"},
		{"simple", common.EastAsianLineBreaksSimple, "日本\n語\n", "日本語"},
		{"simple latin", common.EastAsianLineBreaksSimple, "ab\ncd\n", "ab\ncd"},
		{"css3draft", common.EastAsianLineBreaksCss3draft, "日本\n語\n", "日本語"},
		{"css3draft hangul", common.EastAsianLineBreaksCss3draft, "한\n글\n", "한\n글"},
		{"css3draft punctuation", common.EastAsianLineBreaksCss3draft, "end.\nnext\n", "end.next"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := build(t, tt.src, Options{EastAsianLineBreaks: tt.mode}).FirstChild()
			assert.Equal(t, tt.want, p.TextContent())
		})
	}
}

func TestKeepSoftLineBreak(t *testing.T) {
	assert.True(t, keepSoftLineBreak(common.EastAsianLineBreaksNone, '日', '本'))
	assert.False(t, keepSoftLineBreak(common.EastAsianLineBreaksSimple, '日', '本'))
	assert.True(t, keepSoftLineBreak(common.EastAsianLineBreaksSimple, 'a', '本'))
	assert.False(t, keepSoftLineBreak(common.EastAsianLineBreaksCss3draft, 'a', '\u200B'))
	assert.False(t, keepSoftLineBreak(common.EastAsianLineBreaksCss3draft, '\u3000', 'a'))
	assert.True(t, keepSoftLineBreak(common.EastAsianLineBreaksCss3draft, 'a', 'b'))
}

func TestBuildHeadingAttributes(t *testing.T) {
	src := "# Title {#custom .cls data-x=1 onclick=evil}\n## Auto id\n"

	root := build(t, src, Options{HeadingIDs: true})
	require.Equal(t, []string{"h1", "h2"}, types(root))
	h1 := root.FirstChild()
	assert.Equal(t, "custom", h1.ID)
	assert.Equal(t, "cls", attr(t, h1, "class"))
	assert.Equal(t, "1", attr(t, h1, "data-x"))
	_, ok := h1.Attr("onclick")
	assert.False(t, ok)
	_, ok = h1.Attr("id")
	assert.False(t, ok, "id goes to element ID")
	assert.Equal(t, "auto-id", root.LastChild().ID)

	root = build(t, src, Options{})
	assert.Empty(t, root.LastChild().ID)
}

func TestBuildEscapes(t *testing.T) {
	p := build(t, "a \\* b &amp; c &#65;\n", Options{}).FirstChild()
	assert.Equal(t, "a * b & c A", p.TextContent())
}

func TestBuildStyleKeysFollowSheet(t *testing.T) {
	sheet, err := style.Preset("inside")
	require.NoError(t, err)

	root := build(t, "[a](x)\n\n1. x\n", Options{Sheet: sheet})
	assert.Equal(t, "p", root.FirstChild().StyleKey)
	assert.Empty(t, find(root, "a")[0].StyleKey)
	assert.Empty(t, find(root, "ol")[0].StyleKey)
	assert.Equal(t, "li", find(root, "li")[0].StyleKey)
}

func TestBuildErrors(t *testing.T) {
	b := NewBuilder(Options{}, zaptest.NewLogger(t))
	assert.Error(t, b.Build(nil, nil, dom.NewElement("div", "")))

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader([]byte("x")))
	assert.Error(t, b.Build(doc, []byte("x"), nil))
	assert.Error(t, b.Build(doc, []byte("x"), dom.NewText("t")))
}

func TestIsDangerousURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"javascript:alert(1)", true},
		{"JavaScript:alert(1)", true},
		{"vbscript:msgbox", true},
		{"file:///etc/passwd", true},
		{"data:text/html,<b>x</b>", true},
		{"data:image/png;base64,AAAA", false},
		{"data:image/svg+xml;base64,AAAA", false},
		{"data:image/bmp;base64,AAAA", true},
		{"https://example.com", false},
		{"/relative/path", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDangerousURL([]byte(tt.url)))
		})
	}
}

func TestRenderer(t *testing.T) {
	sheet, err := style.Preset(style.DefaultPreset)
	require.NoError(t, err)

	b := NewBuilder(Options{Sheet: sheet}, zaptest.NewLogger(t))
	w := script.NewWriter(script.Options{SiteName: "test", SiteID: "1"})
	md := goldmark.New(goldmark.WithRenderer(NewRenderer(b, w, []byte("site.extra = 1;"))))

	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte("# Hi\n"), &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "let site = {\n    name: 'test',\n"))
	assert.Contains(t, out, "let mdStyle = {\n")
	assert.Contains(t, out, "let el1=document.createElement('h1');\n")
	assert.Contains(t, out, "Object.assign(el1.style, mdStyle.h1);\n")
	assert.Contains(t, out, "el1.textContent='Hi';\n")
	assert.Contains(t, out, "mdDiv.appendChild(el1);\n")
	assert.True(t, strings.HasSuffix(out, "return mdDiv;\n};\nsite.extra = 1;\n"))
}
