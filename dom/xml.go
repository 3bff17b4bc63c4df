package dom

import (
	"io"
	"strings"

	"github.com/beevik/etree"

	"mdjs/css"
	"mdjs/style"
)

// WriteXML writes tree as XML document. Inline style goes into "style"
// attribute in CSS form, style key into "data-style-key".
func WriteXML(w io.Writer, root *Element) error {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	addXML(&doc.Element, root)
	// no indentation, it would change text of mixed content elements
	doc.CreateText("\n")
	_, err := doc.WriteTo(w)
	return err
}

func addXML(parent *etree.Element, e *Element) {
	if e.IsText() {
		parent.CreateText(e.Text)
		return
	}
	el := parent.CreateElement(e.Type)
	if e.ID != "" {
		el.CreateAttr("id", e.ID)
	}
	if e.StyleKey != "" {
		el.CreateAttr("data-style-key", e.StyleKey)
	}
	if len(e.Style) > 0 {
		el.CreateAttr("style", CSSText(e.Style))
	}
	for _, a := range e.Attrs {
		el.CreateAttr(a.Name, a.Value)
	}
	for _, c := range e.children {
		addXML(el, c)
	}
}

// CSSText formats properties as value of HTML style attribute.
func CSSText(props style.Properties) string {
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, style.KebabCase(p.Name)+": "+p.Value)
	}
	return strings.Join(parts, "; ")
}

// ParseCSSText is the reverse of CSSText, malformed declarations are
// skipped.
func ParseCSSText(text string) style.Properties {
	var props style.Properties
	for _, d := range css.NewParser(nil).ParseInline([]byte(text)) {
		name := style.CamelCase(d.Name)
		if !style.ValidPropertyName(name) {
			continue
		}
		props.Set(name, d.Value)
	}
	return props
}
