package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/mxcd/verparse/internal/actions"
	"github.com/mxcd/verparse/internal/configuration"
	"github.com/mxcd/verparse/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var version = "development"

const defaultConfigPath = ".verparse.yml"

func main() {

	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{},
		Usage:   "print only the version",
	}

	cmd := &cli.Command{
		Name:    "verparse",
		Version: version,
		Usage:   "Parse, sort and compare free-form version strings",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug output",
				Sources: cli.EnvVars("VERPARSE_VERBOSE"),
			},
			&cli.BoolFlag{
				Name:    "very-verbose",
				Aliases: []string{"vv"},
				Usage:   "trace output",
				Sources: cli.EnvVars("VERPARSE_VERY_VERBOSE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file or directory",
				Sources: cli.EnvVars("VERPARSE_CONFIG"),
			},
			&cli.StringSliceFlag{
				Name:  "tag-type",
				Usage: "Additional tag type as name:weight[:short], repeatable",
			},
			&cli.StringFlag{
				Name:  "separator",
				Usage: "Separator used when rendering tags",
			},
			&cli.BoolFlag{
				Name:  "uppercase",
				Usage: "Render tag names in upper case",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: table, json, yaml",
				Value:   actions.OutputFormatTable,
				Sources: cli.EnvVars("VERPARSE_OUTPUT"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return initCli(ctx, cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "Parse version strings and show their components",
				ArgsUsage: "<version>...",
				Action:    parseCommand,
			},
			{
				Name:      "sort",
				Usage:     "Sort version strings from lowest to highest",
				ArgsUsage: "<version>...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "reverse",
						Aliases: []string{"r"},
						Usage:   "Sort from highest to lowest",
					},
				},
				Action: sortCommand,
			},
			{
				Name:      "compare",
				Usage:     "Compare two versions, prints higher, lower or equal",
				ArgsUsage: "<a> <b>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "fail-if-lower",
						Usage: "Exit with code 1 if <a> is lower than <b>",
					},
				},
				Action: compareCommand,
			},
			{
				Name:   "validate",
				Usage:  "Validate configuration, output formats include sarif",
				Action: validateCommand,
			},
			{
				Name:  "load",
				Usage: "Scrape all package sources and show their versions",
				Flags: []cli.Flag{
					concurrencyFlag(),
				},
				Action: loadCommand,
			},
			{
				Name:  "check",
				Usage: "Compare current versions in targets with the latest source versions",
				Flags: []cli.Flag{
					concurrencyFlag(),
					&cli.StringFlag{
						Name:  "only",
						Usage: "Only show specific update types: major, minor, patch, tag (comma separated)",
					},
					&cli.StringSliceFlag{
						Name:  "label",
						Usage: "Only show targets carrying one of the given labels",
					},
					&cli.BoolFlag{
						Name:  "no-fail",
						Usage: "Exit with code 0 even when updates are available",
					},
				},
				Action: checkCommand,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("command terminated with error")
	}
}

func concurrencyFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "concurrency",
		Usage: "Maximum number of sources scraped in parallel",
		Value: 4,
	}
}

func initCli(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	godotenv.Load()
	util.SetCliLoggerDefaults()
	util.SetCliLogLevel(cmd)
	log.Trace().Msg("Trace logging enabled")
	log.Debug().Msg("Debug logging enabled")

	return ctx, nil
}

func configPath(cmd *cli.Command) string {
	if path := cmd.String("config"); path != "" {
		return path
	}
	return defaultConfigPath
}

func versionParser(cmd *cli.Command) (*configuration.VersionParser, error) {
	options := parserFlags(cmd)
	options.ConfigPath = cmd.String("config")
	return actions.BuildParser(options)
}

func parserFlags(cmd *cli.Command) *actions.ParserOptions {
	return &actions.ParserOptions{
		TagTypes:  cmd.StringSlice("tag-type"),
		Separator: cmd.String("separator"),
		Uppercase: cmd.Bool("uppercase"),
	}
}

// progressWriter shows the progress bar on stderr for table output only
func progressWriter(cmd *cli.Command) io.Writer {
	if cmd.String("output") != actions.OutputFormatTable {
		return nil
	}
	return os.Stderr
}

// exitError maps configuration problems to exit code 3 and everything
// else to 1
func exitError(err error) error {
	var configErr *actions.ConfigurationError
	if errors.As(err, &configErr) {
		return cli.Exit(fmt.Sprintf("Configuration error: %v", err), 3)
	}
	return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
}

func parseCommand(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return cli.Exit("at least one version is required", 1)
	}

	parser, err := versionParser(cmd)
	if err != nil {
		return exitError(err)
	}

	if _, err := actions.Parse(&actions.ParseOptions{
		Versions:     cmd.Args().Slice(),
		OutputFormat: cmd.String("output"),
		Parser:       parser,
	}); err != nil {
		return exitError(err)
	}
	return nil
}

func sortCommand(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return cli.Exit("at least one version is required", 1)
	}

	parser, err := versionParser(cmd)
	if err != nil {
		return exitError(err)
	}

	if _, err := actions.Sort(&actions.SortOptions{
		Versions:     cmd.Args().Slice(),
		Reverse:      cmd.Bool("reverse"),
		OutputFormat: cmd.String("output"),
		Parser:       parser,
	}); err != nil {
		return exitError(err)
	}
	return nil
}

func compareCommand(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return cli.Exit("exactly two versions are required", 1)
	}

	parser, err := versionParser(cmd)
	if err != nil {
		return exitError(err)
	}

	comparison, err := actions.CompareVersions(&actions.CompareVersionsOptions{
		A:            cmd.Args().Get(0),
		B:            cmd.Args().Get(1),
		OutputFormat: cmd.String("output"),
		Parser:       parser,
	})
	if err != nil {
		return exitError(err)
	}

	if cmd.Bool("fail-if-lower") && comparison.Result == actions.ComparisonLower {
		return cli.Exit("", 1)
	}
	return nil
}

func validateCommand(ctx context.Context, cmd *cli.Command) error {
	log.Info().Str("config", configPath(cmd)).Msg("Validating configuration...")

	if _, err := actions.Validate(&actions.ValidateOptions{
		ConfigPath:   configPath(cmd),
		OutputFormat: cmd.String("output"),
		Version:      version,
	}); err != nil {
		return exitError(err)
	}
	return nil
}

func loadCommand(ctx context.Context, cmd *cli.Command) error {
	if _, err := actions.Load(ctx, &actions.LoadOptions{
		ConfigPath:   configPath(cmd),
		OutputFormat: cmd.String("output"),
		Concurrency:  int(cmd.Int("concurrency")),
		Flags:        parserFlags(cmd),
		Progress:     progressWriter(cmd),
	}); err != nil {
		return exitError(err)
	}
	return nil
}

func checkCommand(ctx context.Context, cmd *cli.Command) error {
	result, err := actions.Check(ctx, &actions.CheckOptions{
		ConfigPath:   configPath(cmd),
		OutputFormat: cmd.String("output"),
		Only:         cmd.String("only"),
		Labels:       cmd.StringSlice("label"),
		Concurrency:  int(cmd.Int("concurrency")),
		Flags:        parserFlags(cmd),
		Progress:     progressWriter(cmd),
	})
	if err != nil {
		return exitError(err)
	}

	// pending updates fail the check for CI use
	if result.HasUpdates && !cmd.Bool("no-fail") {
		return cli.Exit("", 1)
	}
	return nil
}
