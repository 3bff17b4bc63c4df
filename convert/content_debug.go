package convert

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"mdjs/dom"
	"mdjs/utils/debug"
)

// String returns a readable report of the prepared document: metadata, style
// keys in use and both element trees. It exists solely for manual inspection
// during debugging.
func (d *Document) String() string {
	if d == nil || d.Content == nil {
		return "<nil Document>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Document %q id=%s", d.SrcName, d.ID)
	tw.Field(1, "name", d.Name())
	tw.Field(1, "title", d.Title())
	tw.Field(1, "author", d.Meta.Author)
	tw.Field(1, "date", d.Meta.Date.String())
	tw.Field(1, "lang", d.Meta.Lang)
	tw.List(1, "Tags", d.Meta.Tags)
	tw.Field(1, "site name", d.SiteName)
	tw.Field(1, "site id", d.SiteID)

	if d.Sheet != nil {
		tw.Line(1, "Style sheet %q: %d keys", d.Sheet.Name, d.Sheet.Len())
		tw.List(2, "Used keys", styleKeys(d.Summary, d.Body))
	}

	if d.Summary != nil {
		tw.Line(1, "Summary: %d nodes", dom.Count(d.Summary))
		tw.Block(2, "Tree", dom.Dump(d.Summary))
	}
	if d.Body != nil {
		tw.Line(1, "Body: %d nodes", dom.Count(d.Body))
		tw.Block(2, "Tree", dom.Dump(d.Body))
	}
	return tw.String()
}

// styleKeys returns sorted set of style keys referenced by elements.
func styleKeys(roots ...*dom.Element) []string {
	seen := make(map[string]bool)
	for _, root := range roots {
		if root == nil {
			continue
		}
		_ = dom.Walk(root, func(e *dom.Element, entering bool) (dom.WalkStatus, error) {
			if entering && len(e.StyleKey) > 0 {
				seen[e.StyleKey] = true
			}
			return dom.WalkContinue, nil
		})
	}
	keys := slices.Collect(maps.Keys(seen))
	sort.Sort(natural.StringSlice(keys))
	return keys
}
