package style

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"go.uber.org/zap"

	"mdjs/css"
)

// keys which are named differently in CSS.
var cssElements = map[string]string{
	"blockquote": "block",
}

var htmlKeys = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"p", "code", "a", "ul", "ol", "li",
	"pre", "hr", "img", "em", "strong", "del",
	"table", "th", "td",
}

// ParseCSS builds sheet from CSS rules with element or class selectors.
// Unsupported selectors are skipped with a warning.
func ParseCSS(data []byte, log *zap.Logger) (*Sheet, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ss := css.NewParser(log).Parse(data)
	for _, w := range ss.Warnings {
		log.Warn("Style sheet problem ignored", zap.String("details", w))
	}
	if len(ss.Imports) > 0 {
		log.Warn("Style sheet imports are not followed", zap.Strings("imports", ss.Imports))
	}

	sheet := NewSheet("")
	for _, r := range ss.Rules {
		if !r.Selector.IsSimple() {
			continue
		}
		key := r.Selector.Key()
		if r.Selector.Class == "" {
			if k, ok := cssElements[key]; ok {
				key = k
			}
		}
		var props Properties
		for _, d := range r.Declarations {
			if d.Important {
				log.Debug("Priority is not supported, ignoring", zap.String("selector", r.Selector.Raw), zap.String("property", d.Name))
			}
			props.Set(CamelCase(d.Name), d.Value)
		}
		sheet.Merge(key, props)
	}
	if sheet.Len() == 0 {
		return nil, fmt.Errorf("no usable rules in style sheet")
	}
	return sheet, nil
}

// cssSelector returns selector addressing the key.
func cssSelector(key string) string {
	for el, k := range cssElements {
		if k == key {
			return el
		}
	}
	if slices.Contains(htmlKeys, key) {
		return key
	}
	return "." + key
}

// WriteCSS writes sheet as CSS rules, property names are converted back to
// kebab case.
func WriteCSS(w io.Writer, s *Sheet) error {
	ss := &css.Stylesheet{}
	for _, r := range s.rules {
		sel := cssSelector(r.Key)
		rule := css.Rule{Selector: css.Selector{Raw: sel}}
		for _, p := range r.Props {
			rule.Declarations = append(rule.Declarations, css.Declaration{Name: KebabCase(p.Name), Value: p.Value})
		}
		ss.Rules = append(ss.Rules, rule)
	}
	var buf bytes.Buffer
	if _, err := ss.WriteTo(&buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
