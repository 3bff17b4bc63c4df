package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// elements never converted from raw HTML together with their content.
var droppedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Frame:    true,
	atom.Frameset: true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Link:     true,
	atom.Meta:     true,
	atom.Base:     true,
}

// FromHTML converts HTML fragment parsed in the context of the given element
// ("div" when empty) into descriptors. Scripting is removed: dangerous
// elements are dropped with their content, event handler attributes are
// ignored and "style" attribute becomes inline style.
func FromHTML(fragment, context string) ([]*Element, error) {
	if context == "" {
		context = "div"
	}
	ctx := &html.Node{Type: html.ElementNode, Data: context, DataAtom: atom.Lookup([]byte(context))}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to parse html fragment: %w", err)
	}

	var res []*Element
	for _, n := range nodes {
		e, err := convertHTML(n)
		if err != nil {
			return nil, err
		}
		if e != nil {
			res = append(res, e)
		}
	}
	return res, nil
}

func convertHTML(n *html.Node) (*Element, error) {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return nil, nil
		}
		return NewText(n.Data), nil
	case html.ElementNode:
	default:
		// comments, doctypes
		return nil, nil
	}
	if droppedElements[n.DataAtom] {
		return nil, nil
	}

	e := NewElement(strings.ToLower(n.Data), "")
	for _, a := range n.Attr {
		name := strings.ToLower(a.Key)
		switch {
		case a.Namespace != "", strings.HasPrefix(name, "on"):
			continue
		case name == "id":
			e.ID = a.Val
		case name == "style":
			e.Style = ParseCSSText(a.Val)
		case (name == "href" || name == "src" || name == "action" || name == "formaction") && scriptURL(a.Val):
			continue
		default:
			e.SetAttr(name, a.Val)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		child, err := convertHTML(c)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		if child.IsText() {
			if err := e.AppendText(child.Text); err != nil {
				return nil, err
			}
			continue
		}
		if err := e.AppendChild(child); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func scriptURL(u string) bool {
	u = strings.ToLower(strings.TrimSpace(u))
	return strings.HasPrefix(u, "javascript:") || strings.HasPrefix(u, "vbscript:")
}
