// Package style holds markdown style configuration: mapping from style keys
// (mostly tag names) to element style properties, loaders for the supported
// file formats and the JS object literal writer.
package style

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/multierr"
)

// Keys known to the renderer. Order is used whenever source format does not
// preserve one (TOML).
var canonicalKeys = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"p", "code", "block", "a", "ul", "ol", "li",
	"pre", "hr", "img", "em", "strong", "del",
	"table", "th", "td", "task",
}

// KnownKey reports whether key is used by the renderer.
func KnownKey(key string) bool {
	return slices.Contains(canonicalKeys, key)
}

// Rule binds style key to its properties.
type Rule struct {
	Key   string
	Props Properties
}

// Sheet is an ordered mapping from style key to properties.
type Sheet struct {
	Name  string
	rules []Rule
}

func NewSheet(name string) *Sheet {
	return &Sheet{Name: name}
}

// Get returns properties for the key.
func (s *Sheet) Get(key string) (Properties, bool) {
	if s == nil {
		return nil, false
	}
	for _, r := range s.rules {
		if r.Key == key {
			return r.Props, true
		}
	}
	return nil, false
}

func (s *Sheet) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set replaces properties of existing key keeping its position or appends a
// new rule.
func (s *Sheet) Set(key string, props Properties) {
	for i := range s.rules {
		if s.rules[i].Key == key {
			s.rules[i].Props = props
			return
		}
	}
	s.rules = append(s.rules, Rule{Key: key, Props: props})
}

// Merge sets properties of the key one by one, so later values win.
func (s *Sheet) Merge(key string, props Properties) {
	cur, _ := s.Get(key)
	cur = cur.Clone()
	for _, p := range props {
		cur.Set(p.Name, p.Value)
	}
	s.Set(key, cur)
}

// Keys returns style keys in sheet order.
func (s *Sheet) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.rules))
	for _, r := range s.rules {
		keys = append(keys, r.Key)
	}
	return keys
}

// Rules returns copy of the sheet rules.
func (s *Sheet) Rules() []Rule {
	if s == nil {
		return nil
	}
	res := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		res = append(res, Rule{Key: r.Key, Props: r.Props.Clone()})
	}
	return res
}

func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

func (s *Sheet) Clone() *Sheet {
	if s == nil {
		return nil
	}
	return &Sheet{Name: s.Name, rules: s.Rules()}
}

// Equal compares sheets by content, names and order are ignored.
func (s *Sheet) Equal(other *Sheet) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s == nil || other == nil {
		// nil sheet has no rules
		return true
	}
	for _, r := range s.rules {
		props, ok := other.Get(r.Key)
		if !ok || !props.Equal(r.Props) {
			return false
		}
	}
	return true
}

// sortCanonical orders rules: known keys first in renderer order, the rest
// alphabetically.
func (s *Sheet) sortCanonical() {
	rank := func(k string) int {
		if i := slices.Index(canonicalKeys, k); i >= 0 {
			return i
		}
		return len(canonicalKeys)
	}
	slices.SortStableFunc(s.rules, func(a, b Rule) int {
		ra, rb := rank(a.Key), rank(b.Key)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a.Key, b.Key)
	})
}

// Validate checks that every key and property name is usable and values do
// not contain line terminators. All problems are reported at once.
func (s *Sheet) Validate() error {
	if s == nil {
		return errors.New("style sheet is not defined")
	}
	var err error
	seen := make(map[string]bool, len(s.rules))
	for _, r := range s.rules {
		if !validKey(r.Key) {
			err = multierr.Append(err, fmt.Errorf("invalid style key %q", r.Key))
		}
		if seen[r.Key] {
			err = multierr.Append(err, fmt.Errorf("duplicate style key %q", r.Key))
		}
		seen[r.Key] = true

		if perr := r.Props.Validate(); perr != nil {
			for _, e := range multierr.Errors(perr) {
				err = multierr.Append(err, fmt.Errorf("%s: %w", r.Key, e))
			}
		}
	}
	return err
}
