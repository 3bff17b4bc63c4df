// Package css reads the subset of CSS used for markdown style sheets:
// element and class selectors with plain declarations.
package css

import (
	"fmt"
	"io"
	"strings"
)

// Selector represents a parsed simple CSS selector.
type Selector struct {
	Raw     string // Original selector text
	Element string // Element name (e.g., "p", "h1"), empty for pure class selectors
	Class   string // Class name without the leading dot
}

// IsSimple returns true if selector could be used by the style sheet: element
// only, class only or element with class.
func (s Selector) IsSimple() bool {
	return s.Element != "" || s.Class != ""
}

// Key returns name under which rule is known to the style sheet. Class wins
// over element so "p.note" and ".note" address the same entry.
func (s Selector) Key() string {
	if s.Class != "" {
		return s.Class
	}
	return s.Element
}

// Declaration is a single "name: value" pair.
type Declaration struct {
	Name      string // lower case property name as written ("font-size")
	Value     string // raw value with normalized whitespace
	Important bool
}

// Rule is a selector with its declarations in document order.
type Rule struct {
	Selector     Selector
	Declarations []Declaration
}

// Get returns value of the last declaration with given name.
func (r Rule) Get(name string) (string, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Name == name {
			return r.Declarations[i].Value, true
		}
	}
	return "", false
}

// Stylesheet is the result of parsing.
type Stylesheet struct {
	Rules    []Rule
	Imports  []string
	Warnings []string
}

// RulesBySelector returns all rules which have given key (see Selector.Key).
func (s *Stylesheet) RulesBySelector(key string) []Rule {
	var res []Rule
	for _, r := range s.Rules {
		if r.Selector.Key() == key {
			res = append(res, r)
		}
	}
	return res
}

// WriteTo writes stylesheet back as CSS text.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, imp := range s.Imports {
		n, err := fmt.Fprintf(w, "@import \"%s\";\n", imp)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	for i := range s.Rules {
		n, err := writeRule(w, &s.Rules[i])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Stylesheet) String() string {
	var sb strings.Builder
	_, _ = s.WriteTo(&sb)
	return sb.String()
}

func writeRule(w io.Writer, rule *Rule) (int, error) {
	total, err := fmt.Fprintf(w, "%s {\n", rule.Selector.Raw)
	if err != nil {
		return total, err
	}
	for _, d := range rule.Declarations {
		imp := ""
		if d.Important {
			imp = " !important"
		}
		n, err := fmt.Fprintf(w, "  %s: %s%s;\n", d.Name, d.Value, imp)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := io.WriteString(w, "}\n")
	return total + n, err
}
