package style

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/maruel/natural"
)

// DefaultPreset is used when configuration does not name a style.
const DefaultPreset = "default"

//go:embed presets/*.js
var presetFiles embed.FS

var presets = sync.OnceValues(func() (map[string]*Sheet, error) {
	entries, err := presetFiles.ReadDir("presets")
	if err != nil {
		return nil, err
	}
	res := make(map[string]*Sheet, len(entries))
	for _, e := range entries {
		data, err := presetFiles.ReadFile(path.Join("presets", e.Name()))
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		_, sheet, err := ParseJS(data)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		sheet.Name = name
		res[name] = sheet
	}
	return res, nil
})

// Preset returns copy of the named built-in style sheet.
func Preset(name string) (*Sheet, error) {
	all, err := presets()
	if err != nil {
		return nil, err
	}
	sheet, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("unknown style preset %q", name)
	}
	return sheet.Clone(), nil
}

// IsPreset reports whether name is one of the built-in style sheets.
func IsPreset(name string) bool {
	all, err := presets()
	if err != nil {
		return false
	}
	_, ok := all[name]
	return ok
}

// PresetNames returns names of built-in style sheets in natural order.
func PresetNames() []string {
	all, _ := presets()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}
