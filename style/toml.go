package style

import (
	"fmt"
	"maps"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// ParseTOML reads table per style key. TOML tables are unordered, so keys
// come in canonical order and properties alphabetically.
func ParseTOML(data []byte) (*Sheet, error) {
	var doc map[string]map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse toml style: %w", err)
	}

	sheet := NewSheet("")
	for key, table := range doc {
		var props Properties
		for _, name := range slices.Sorted(maps.Keys(table)) {
			switch v := table[name].(type) {
			case map[string]any, []any:
				return nil, fmt.Errorf("%s: value of property %q must be a scalar", key, name)
			default:
				props.Set(CamelCase(name), fmt.Sprint(v))
			}
		}
		sheet.Set(key, props)
	}
	sheet.sortCanonical()
	return sheet, nil
}
