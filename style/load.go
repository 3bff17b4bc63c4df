package style

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"go.uber.org/zap"

	"mdjs/misc"
)

// Extensions recognized by Load in search order.
var Extensions = []string{".js", ".css", ".yaml", ".yml", ".toml"}

// Load reads style sheet from file, format is selected by extension.
func Load(path string, log *zap.Logger) (*Sheet, error) {
	if log == nil {
		log = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read style: %w", err)
	}

	var sheet *Sheet
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".js":
		_, sheet, err = ParseJS(data)
	case ".css":
		sheet, err = ParseCSS(data, log)
	case ".yaml", ".yml":
		sheet, err = ParseYAML(data)
	case ".toml":
		sheet, err = ParseTOML(data)
	default:
		return nil, fmt.Errorf("unsupported style file type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("style %s: %w", path, err)
	}
	if err := sheet.Validate(); err != nil {
		return nil, fmt.Errorf("style %s: %w", path, err)
	}
	sheet.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, key := range sheet.Keys() {
		if !KnownKey(key) {
			// still useful for elements carrying class with that name
			log.Info("Style key is not used by renderer, it only matches classes", zap.String("style", sheet.Name), zap.String("key", key))
		}
	}
	return sheet, nil
}

// Resolve finds style by preset name, path or name of the file in user
// configuration directories ($XDG_CONFIG_HOME and $XDG_CONFIG_DIRS, under
// mdjs/styles).
func Resolve(nameOrPath string, log *zap.Logger) (*Sheet, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if nameOrPath == "" {
		nameOrPath = DefaultPreset
	}
	if IsPreset(nameOrPath) {
		return Preset(nameOrPath)
	}
	if _, err := os.Stat(nameOrPath); err == nil {
		return Load(nameOrPath, log)
	}
	if strings.ContainsAny(nameOrPath, `/\`) {
		return nil, fmt.Errorf("style file %q not found", nameOrPath)
	}
	for _, ext := range Extensions {
		path, err := xdg.SearchConfigFile(filepath.Join(misc.GetAppName(), "styles", nameOrPath+ext))
		if err != nil {
			continue
		}
		log.Debug("Using style from configuration directory", zap.String("path", path))
		return Load(path, log)
	}
	return nil, errors.New("style " + nameOrPath + " is neither a preset nor a file")
}
