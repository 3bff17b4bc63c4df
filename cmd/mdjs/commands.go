package main

import (
	"fmt"
	"runtime"
	"strings"

	cli "github.com/urfave/cli/v3"

	"mdjs/common"
	"mdjs/convert"
	"mdjs/inspect"
	"mdjs/styles"
)

const convertHelp = `%s
SOURCE:
    path to markdown file(s) to process, following forms are supported:
        path to a file: "[path_to_file]file.md"
        path to a directory: "[path_to_directory]directory" - recursively process all files under directory (symbolic links are not followed)
        path to archive with path inside archive to a particular markdown file: "[path_to_archive]archive.zip[path_in_archive]/file.md"
        path to archive with path inside archive: "[path_to_archive]archive.zip[path_in_archive]" - recursively process all markdown files under archive path

    Files with .md, .markdown, .mdown and .mkd extensions are considered,
    metadata is read from front matter and from "<name>.meta" file next to
    the document. Archives inside archives are not processed.

DESTINATION:
    always a path, output file name(s) and extension will be derived from other parameters
    if absent - current working directory
`

const dumpConfigHelp = `%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces "effective" configuration: default values combined with values from
configuration file. To see default configuration embedded into the program use
--default flag.
`

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:         "convert",
		Usage:        "Converts markdown file(s) to render scripts or descriptor trees",
		OnUsageError: passUsageError,
		Action:       convert.Run,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Value: common.OutputFmtJs.String(),
				Usage: "conversion output `TYPE` (supported types: " + strings.Join(common.OutputFmtNames(), ", ") + ")"},
			&cli.StringFlag{Name: "style", Aliases: []string{"s"},
				Usage: "style `NAME` (built-in preset or file in configuration directory) or path to style file, overrides configuration"},
			&cli.StringFlag{Name: "site", Usage: "`PATH` to site script appended to generated scripts, overrides configuration"},
			&cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}, Usage: "when producing output do not keep input directory structure"},
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Value: runtime.NumCPU(), Usage: "number of documents converted in parallel"},
			&cli.StringFlag{Name: "force-zip-cp",
				Usage: "Force `ENCODING` for ALL non UTF-8 file names in processed archives (see IANA.org for character set names)"},
		},
		ArgsUsage:          "SOURCE [DESTINATION]",
		CustomHelpTemplate: fmt.Sprintf(convertHelp, cli.CommandHelpTemplate),
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:         "inspect",
		Usage:        "Shows how markdown document is seen by the converter",
		OnUsageError: passUsageError,
		Action:       inspect.Run,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "ast", Usage: "print parsed markdown tree"},
			&cli.BoolFlag{Name: "tree", Usage: "print element tree"},
			&cli.BoolFlag{Name: "style", Usage: "print style sheet in use"},
			&cli.BoolFlag{Name: "no-preview", Usage: "do not render document for terminal"},
			&cli.IntFlag{Name: "width", Usage: "preview word wrap `WIDTH`, terminal width by default"},
		},
		ArgsUsage: "SOURCE",
	}
}

func stylesCommand() *cli.Command {
	return &cli.Command{
		Name:            "styles",
		Usage:           "Lists, shows and compares style sheets",
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:         "list",
				Usage:        "Lists built-in presets and styles from configuration directory",
				OnUsageError: passUsageError,
				Action:       styles.List,
			},
			{
				Name:         "show",
				Usage:        "Prints style sheet",
				OnUsageError: passUsageError,
				Action:       styles.Show,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "js",
						Usage: "output `FORMAT` (supported formats: " + strings.Join(styles.Formats, ", ") + ")"},
				},
				ArgsUsage: "[NAME|PATH]",
			},
			{
				Name:         "diff",
				Usage:        "Prints changes turning first style sheet into second",
				OnUsageError: passUsageError,
				Action:       styles.Diff,
				ArgsUsage:    "NAME|PATH NAME|PATH",
			},
		},
	}
}

func dumpConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "dumpconfig",
		Usage: "Dumps either default or effective configuration (YAML)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
		},
		OnUsageError:       passUsageError,
		Action:             dumpConfiguration,
		ArgsUsage:          "DESTINATION",
		CustomHelpTemplate: fmt.Sprintf(dumpConfigHelp, cli.CommandHelpTemplate),
	}
}
