package style

import "fmt"

// ChangeKind describes a single difference between sheets.
type ChangeKind int

const (
	KeyAdded ChangeKind = iota
	KeyRemoved
	PropertyAdded
	PropertyRemoved
	PropertyChanged
)

func (k ChangeKind) String() string {
	switch k {
	case KeyAdded:
		return "key added"
	case KeyRemoved:
		return "key removed"
	case PropertyAdded:
		return "property added"
	case PropertyRemoved:
		return "property removed"
	case PropertyChanged:
		return "property changed"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is one difference. Property is empty for key changes, Old and New
// hold property values.
type Change struct {
	Kind     ChangeKind
	Key      string
	Property string
	Old      string
	New      string
}

func (c Change) String() string {
	switch c.Kind {
	case KeyAdded:
		return "+ " + c.Key
	case KeyRemoved:
		return "- " + c.Key
	case PropertyAdded:
		return fmt.Sprintf("+ %s.%s: %s", c.Key, c.Property, QuoteJS(c.New))
	case PropertyRemoved:
		return fmt.Sprintf("- %s.%s: %s", c.Key, c.Property, QuoteJS(c.Old))
	default:
		return fmt.Sprintf("~ %s.%s: %s -> %s", c.Key, c.Property, QuoteJS(c.Old), QuoteJS(c.New))
	}
}

// Diff lists changes which turn a into b. Keys and properties of a are
// visited first in their order, followed by the ones present only in b.
func Diff(a, b *Sheet) []Change {
	var res []Change
	for _, ra := range a.Rules() {
		pb, ok := b.Get(ra.Key)
		if !ok {
			res = append(res, Change{Kind: KeyRemoved, Key: ra.Key})
			continue
		}
		for _, p := range ra.Props {
			v, ok := pb.Get(p.Name)
			switch {
			case !ok:
				res = append(res, Change{Kind: PropertyRemoved, Key: ra.Key, Property: p.Name, Old: p.Value})
			case v != p.Value:
				res = append(res, Change{Kind: PropertyChanged, Key: ra.Key, Property: p.Name, Old: p.Value, New: v})
			}
		}
		for _, p := range pb {
			if _, ok := ra.Props.Get(p.Name); !ok {
				res = append(res, Change{Kind: PropertyAdded, Key: ra.Key, Property: p.Name, New: p.Value})
			}
		}
	}
	for _, rb := range b.Rules() {
		if !a.Has(rb.Key) {
			res = append(res, Change{Kind: KeyAdded, Key: rb.Key})
		}
	}
	return res
}
