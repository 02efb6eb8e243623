package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cybertec-postgresql/pgscan/internal/cli"
	"github.com/cybertec-postgresql/pgscan/internal/logger"
	urfavecli "github.com/urfave/cli/v3"
)

const version = "1.0.0"

// scanFlags are shared by the scan and load commands
func scanFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Format string matched against every input line, e.g. \"({}, {})\"",
			Sources: urfavecli.EnvVars("PGSCAN_FORMAT"),
		},
		&urfavecli.StringFlag{
			Name:    "grammar",
			Usage:   "Format grammar (brace or scanf)",
			Sources: urfavecli.EnvVars("PGSCAN_GRAMMAR"),
		},
		&urfavecli.StringSliceFlag{
			Name:    "types",
			Aliases: []string{"t"},
			Usage:   "Value type per placeholder (int, uint, float, bool, string, char, skip)",
			Sources: urfavecli.EnvVars("PGSCAN_TYPES"),
		},
		&urfavecli.StringSliceFlag{
			Name:  "columns",
			Usage: "Column name per placeholder",
		},
	}
}

// commonFlags are accepted by every command
func commonFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "locale",
			Usage:   "Locale for {:L} numbers, e.g. de_DE or de_DE.ISO-8859-1",
			Sources: urfavecli.EnvVars("PGSCAN_LOCALE", "LC_NUMERIC"),
		},
		&urfavecli.StringFlag{
			Name:    "encoding",
			Usage:   "Input encoding (defaults to the locale's, then UTF-8)",
			Sources: urfavecli.EnvVars("PGSCAN_ENCODING"),
		},
		&urfavecli.IntFlag{
			Name:  "putback",
			Usage: "Bytes kept for rollback on stream inputs",
		},
		&urfavecli.StringFlag{
			Name:  "include",
			Usage: "Glob for file names picked up from directories",
		},
		&urfavecli.IntFlag{
			Name:    "parallel",
			Usage:   "Maximum inputs scanned concurrently (1 = sequential)",
			Sources: urfavecli.EnvVars("PGSCAN_PARALLEL"),
		},
		&urfavecli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug output",
		},
	}
}

func outputFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "to",
			Usage: "Output format (text, json, or csv)",
		},
		&urfavecli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (use - for stdout)",
		},
	}
}

func concat(groups ...[]urfavecli.Flag) []urfavecli.Flag {
	var out []urfavecli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func main() {
	app := &urfavecli.Command{
		Name:    "pgscan",
		Usage:   "Scan formatted text input into typed records",
		Version: version,
		Commands: []*urfavecli.Command{
			{
				Name:      "scan",
				Usage:     "Match every line of the inputs against a format",
				ArgsUsage: "[file|dir|glob|-]...",
				Action:    scanCommand,
				Flags:     concat(scanFlags(), commonFlags(), outputFlags()),
			},
			{
				Name:      "list",
				Usage:     "Read each input as one separated list of values",
				ArgsUsage: "[file|dir|glob|-]...",
				Action:    listCommand,
				Flags: concat([]urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Element type (int, uint, float, bool, string, char)",
						Value:   "string",
					},
					&urfavecli.StringFlag{
						Name:    "separator",
						Aliases: []string{"s"},
						Usage:   "Single-byte separator (whitespace when empty)",
					},
				}, commonFlags(), outputFlags()),
			},
			{
				Name:      "load",
				Usage:     "Scan the inputs and copy the records into a PostgreSQL table",
				ArgsUsage: "[file|dir|glob|-]...",
				Action:    loadCommand,
				Flags: concat(scanFlags(), commonFlags(), []urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:    "connection",
						Aliases: []string{"c"},
						Usage:   "PostgreSQL connection string (URI or key=value format). Supports standard PG* environment variables.",
						Sources: urfavecli.EnvVars("PGSCAN_CONNECTION"),
					},
					&urfavecli.StringFlag{
						Name:    "table",
						Usage:   "Target table, optionally schema qualified",
						Sources: urfavecli.EnvVars("PGSCAN_TABLE"),
					},
					&urfavecli.BoolFlag{
						Name:  "create-table",
						Usage: "Create the target table when it does not exist",
					},
				}),
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readFlags collects whatever flags the command defines
func readFlags(cmd *urfavecli.Command) cli.Flags {
	f := cli.Flags{
		Format:      cmd.String("format"),
		Grammar:     cmd.String("grammar"),
		Types:       cmd.StringSlice("types"),
		Separator:   cmd.String("separator"),
		Locale:      cmd.String("locale"),
		Encoding:    cmd.String("encoding"),
		Putback:     int(cmd.Int("putback")),
		Include:     cmd.String("include"),
		Output:      cmd.String("to"),
		OutputPath:  cmd.String("output"),
		Parallelism: int(cmd.Int("parallel")),
		Connection:  cmd.String("connection"),
		Table:       cmd.String("table"),
		Columns:     cmd.StringSlice("columns"),
		CreateTable: cmd.Bool("create-table"),
		Verbose:     cmd.Bool("verbose"),
	}
	if t := cmd.String("type"); t != "" {
		f.Types = []string{t}
	}
	return f
}

// configure loads defaults, applies flags and validates
func configure(cmd *urfavecli.Command, validate func(*cli.Config) error) *cli.Config {
	config := cli.LoadConfig()
	cli.ApplyFlagsToConfig(config, readFlags(cmd))

	if err := validate(config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	logger.SetVerbose(config.Verbose)
	return config
}

func exit(exitCode int, err error) error {
	if err != nil {
		return err
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// scanCommand handles the 'pgscan scan' command
func scanCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := configure(cmd, cli.ValidateScan)
	return exit(cli.Scan(ctx, config, cmd.Args().Slice()))
}

// listCommand handles the 'pgscan list' command
func listCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := configure(cmd, cli.ValidateList)
	return exit(cli.List(ctx, config, cmd.Args().Slice()))
}

// loadCommand handles the 'pgscan load' command
func loadCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := configure(cmd, cli.ValidateLoad)
	return exit(cli.Load(ctx, config, cmd.Args().Slice()))
}
