// Package dom describes the element tree produced from markdown. Elements
// are plain descriptors which render script later turns into DOM calls.
package dom

import (
	"errors"
	"strings"

	"mdjs/style"
)

type Kind int

const (
	ElementNode Kind = iota
	TextNode
)

func (k Kind) String() string {
	if k == TextNode {
		return "text"
	}
	return "element"
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of descriptor tree. Edges are established with
// AppendChild only and never change afterwards.
type Element struct {
	Kind     Kind
	Type     string           // tag name, empty for text nodes
	ID       string           // element id, optional
	StyleKey string           // key in the style sheet
	Style    style.Properties // inline style, applied after sheet style
	Attrs    []Attr
	Text     string // text nodes only

	parent   *Element
	children []*Element
}

var (
	ErrHasParent  = errors.New("node already has a parent")
	ErrTextParent = errors.New("text node cannot have children")
	ErrCycle      = errors.New("node cannot become its own descendant")
	ErrNilChild   = errors.New("nil child")
)

func NewElement(typ, id string) *Element {
	return &Element{Kind: ElementNode, Type: typ, ID: id}
}

func NewText(text string) *Element {
	return &Element{Kind: TextNode, Text: text}
}

func (e *Element) IsText() bool {
	return e.Kind == TextNode
}

// AppendChild attaches child as the last child of e.
func (e *Element) AppendChild(child *Element) error {
	switch {
	case child == nil:
		return ErrNilChild
	case e.Kind == TextNode:
		return ErrTextParent
	case child.parent != nil:
		return ErrHasParent
	}
	for p := e; p != nil; p = p.parent {
		if p == child {
			return ErrCycle
		}
	}
	child.parent = e
	e.children = append(e.children, child)
	return nil
}

// AppendText adds text to the last child when it is a text node, otherwise
// creates new text node. Adjacent text segments end up in a single node.
func (e *Element) AppendText(text string) error {
	if text == "" {
		return nil
	}
	if last := e.LastChild(); last != nil && last.IsText() {
		last.Text += text
		return nil
	}
	return e.AppendChild(NewText(text))
}

// SetAttr sets attribute value, replacing previous one.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns copy of children list.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

func (e *Element) ChildCount() int {
	return len(e.children)
}

func (e *Element) FirstChild() *Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

func (e *Element) LastChild() *Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[len(e.children)-1]
}

// TextOnly reports whether element has children and all of them are text
// nodes.
func (e *Element) TextOnly() bool {
	if len(e.children) == 0 {
		return false
	}
	for _, c := range e.children {
		if !c.IsText() {
			return false
		}
	}
	return true
}

// TextContent returns concatenated text of the subtree.
func (e *Element) TextContent() string {
	if e.IsText() {
		return e.Text
	}
	var sb strings.Builder
	_ = Walk(e, func(n *Element, entering bool) (WalkStatus, error) {
		if entering && n.IsText() {
			sb.WriteString(n.Text)
		}
		return WalkContinue, nil
	})
	return sb.String()
}

// Count returns number of nodes in the subtree including e.
func Count(e *Element) int {
	n := 0
	_ = Walk(e, func(_ *Element, entering bool) (WalkStatus, error) {
		if entering {
			n++
		}
		return WalkContinue, nil
	})
	return n
}
