package style

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// ParseYAML reads mapping of style keys to mappings of properties. Document
// order is preserved, property names may be in CSS or camel case.
func ParseYAML(data []byte) (*Sheet, error) {
	var doc yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("unable to parse yaml style: %w", err)
	}

	sheet := NewSheet("")
	for _, item := range doc {
		key := fmt.Sprint(item.Key)
		if sheet.Has(key) {
			return nil, fmt.Errorf("duplicate style key %q", key)
		}
		var props Properties
		switch v := item.Value.(type) {
		case nil:
		case yaml.MapSlice:
			for _, p := range v {
				switch p.Value.(type) {
				case yaml.MapSlice, []any, nil:
					return nil, fmt.Errorf("%s: value of property %v must be a scalar", key, p.Key)
				}
				props.Set(CamelCase(fmt.Sprint(p.Key)), fmt.Sprint(p.Value))
			}
		default:
			return nil, fmt.Errorf("%s: style properties must be a mapping", key)
		}
		sheet.Set(key, props)
	}
	return sheet, nil
}

// WriteYAML writes sheet preserving key and property order.
func WriteYAML(w io.Writer, s *Sheet) error {
	doc := make(yaml.MapSlice, 0, s.Len())
	for _, r := range s.rules {
		props := make(yaml.MapSlice, 0, len(r.Props))
		for _, p := range r.Props {
			props = append(props, yaml.MapItem{Key: p.Name, Value: p.Value})
		}
		doc = append(doc, yaml.MapItem{Key: r.Key, Value: props})
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
