package style

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"
)

// Property is a single style property, Name is in camel case form.
type Property struct {
	Name  string
	Value string
}

// Properties is an ordered set of style properties with unique names.
type Properties []Property

// Get returns value of the named property.
func (p Properties) Get(name string) (string, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

// Set replaces value of existing property keeping its position or appends a
// new one.
func (p *Properties) Set(name, value string) {
	for i := range *p {
		if (*p)[i].Name == name {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Property{Name: name, Value: value})
}

func (p Properties) Len() int {
	return len(p)
}

func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	return append(Properties(nil), p...)
}

// Equal compares properties ignoring order.
func (p Properties) Equal(other Properties) bool {
	if len(p) != len(other) {
		return false
	}
	for _, prop := range p {
		if v, ok := other.Get(prop.Name); !ok || v != prop.Value {
			return false
		}
	}
	return true
}

// Validate reports every invalid or duplicate name and every value with line
// terminators.
func (p Properties) Validate() error {
	var err error
	names := make(map[string]bool, len(p))
	for _, prop := range p {
		if !ValidPropertyName(prop.Name) {
			err = multierr.Append(err, fmt.Errorf("invalid property name %q", prop.Name))
		}
		if names[prop.Name] {
			err = multierr.Append(err, fmt.Errorf("duplicate property %q", prop.Name))
		}
		names[prop.Name] = true
		if strings.ContainsAny(prop.Value, "\r\n\u2028\u2029") {
			err = multierr.Append(err, fmt.Errorf("value of %q contains line terminator", prop.Name))
		}
	}
	return err
}

func (p Properties) String() string {
	parts := make([]string, 0, len(p))
	for _, prop := range p {
		parts = append(parts, jsName(prop.Name)+": "+QuoteJS(prop.Value))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// UnmarshalYAML keeps properties in document order, names may be written in
// either CSS or camel case.
func (p *Properties) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: style properties must be a mapping", value.Line)
	}
	res := make(Properties, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: value of style property %q must be a scalar", v.Line, k.Value)
		}
		res.Set(CamelCase(k.Value), v.Value)
	}
	*p = res
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Properties) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, prop := range p {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: prop.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: prop.Value},
		)
	}
	return node, nil
}
