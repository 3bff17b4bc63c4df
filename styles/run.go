// Package styles implements commands working with style sheets: listing
// available styles, printing them in supported formats and comparing them.
package styles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mdjs/misc"
	"mdjs/state"
	"mdjs/style"
)

// Formats supported by show.
var Formats = []string{"js", "yaml", "css"}

func List(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return list(cmd.Root().Writer, styleDirs())
}

func Show(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	name := cmd.Args().Get(0)
	if len(name) == 0 {
		name = env.Cfg.Document.Style.Name
	}
	return show(cmd.Root().Writer, name, cmd.String("format"), env.Cfg.Document.Style.Variable, env.Log.Named("style"))
}

func Diff(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() != 2 {
		return errors.New("exactly two styles are expected")
	}
	return diff(cmd.Root().Writer, cmd.Args().Get(0), cmd.Args().Get(1), env.Log.Named("style"))
}

// styleDirs returns user style directories in the order style.Resolve
// searches them.
func styleDirs() []string {
	dirs := []string{filepath.Join(xdg.ConfigHome, misc.GetAppName(), "styles")}
	for _, d := range xdg.ConfigDirs {
		dirs = append(dirs, filepath.Join(d, misc.GetAppName(), "styles"))
	}
	return dirs
}

func list(w io.Writer, dirs []string) error {
	for _, name := range style.PresetNames() {
		sheet, err := style.Preset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-12s preset, %d keys\n", name, sheet.Len())
	}

	// Resolve tries all directories for an extension before moving to the
	// next one, listed file is the one it would load
	found := make(map[string]string)
	rank := make(map[string]int)
	for i, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("unable to read styles directory: %w", err)
		}
		for _, e := range entries {
			k := slices.Index(style.Extensions, filepath.Ext(e.Name()))
			if !e.Type().IsRegular() || k < 0 {
				continue
			}
			name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			if style.IsPreset(name) {
				continue
			}
			if r, ok := rank[name]; ok && r <= k*len(dirs)+i {
				continue
			}
			rank[name], found[name] = k*len(dirs)+i, filepath.Join(dir, e.Name())
		}
	}
	names := slices.Collect(maps.Keys(found))
	sort.Sort(natural.StringSlice(names))
	for _, name := range names {
		fmt.Fprintf(w, "%-12s %s\n", name, found[name])
	}
	return nil
}

func show(w io.Writer, name, format, variable string, log *zap.Logger) error {
	sheet, err := style.Resolve(name, log)
	if err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case "", "js":
		return style.WriteJS(w, variable, sheet)
	case "yaml":
		return style.WriteYAML(w, sheet)
	case "css":
		return style.WriteCSS(w, sheet)
	default:
		return fmt.Errorf("unsupported style format %q, try [%s]", format, strings.Join(Formats, ", "))
	}
}

func diff(w io.Writer, from, to string, log *zap.Logger) error {
	a, err := style.Resolve(from, log)
	if err != nil {
		return err
	}
	b, err := style.Resolve(to, log)
	if err != nil {
		return err
	}
	changes := style.Diff(a, b)
	if len(changes) == 0 {
		fmt.Fprintln(w, "styles are identical")
		return nil
	}
	for _, c := range changes {
		fmt.Fprintln(w, c.String())
	}
	return nil
}
