package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/topfiles/internal/integration"
	"github.com/idelchi/topfiles/internal/topfiles"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

//nolint:gochecknoglobals // Config constant
var (
	allowedOutputs = []string{"table", "json", "paths"}
	allowedUnits   = []string{UnitsClassic, UnitsIEC, UnitsSI}
)

func help() string {
	return heredoc.Doc(`
		topfiles reports the largest files in a directory tree.

		The tree is listed concurrently down to --depth levels (1 lists only the
		starting directory). Only the --num largest files are kept in memory while
		scanning. Entries whose name starts with --prefix are ignored entirely and
		directories in --deny are never entered.

		Positional Arguments:
		  path    Directory to scan. Defaults to the configured root ('.' unless set).

		Configuration:
		  Every flag can also be set in a YAML config file (--config, or
		  config.yaml in the user config directory under 'topfiles/') or through
		  TOPFILES_* environment variables, e.g. TOPFILES_DEPTH=3.
		  Flags take precedence over the environment, which takes precedence over
		  the config file.

		The '-I' flag is available if using the integration script for shell usage.
		It will then run an interactive mode where the output of the tool is piped to 'fzf'
	`)
}

// Execute runs the CLI with the process arguments. An interrupt cancels the
// scan; the partial report is still printed.
func (c CLI) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.Command().ExecuteContext(ctx)
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var cfgFile string

	v := viper.New()

	cmd := &cobra.Command{
		Use:           "topfiles [flags] [path]",
		Short:         "Report the largest files in a directory tree",
		Long:          help(),
		Args:          cobra.MaximumNArgs(1),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}

			if err := loadConfig(v, cfgFile); err != nil {
				return err
			}

			options, err := optionsFrom(v, args)
			if err != nil {
				return err
			}

			if options.Integration {
				rendered, err := integration.Render(cmd.Root().Name())
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return err
			}

			return logic(cmd.Context(), options, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.IntP("depth", "d", topfiles.DefaultDepth, "Maximum recursion depth (1 lists only the starting directory)")
	flags.IntP("num", "n", topfiles.DefaultTopN, "Number of largest files to display")
	flags.IntP("workers", "w", 0, "Maximum concurrent directory tasks (0=auto)")
	flags.String("engine", string(topfiles.EngineTree), "Traversal engine: tree, sequential or fastwalk")
	flags.String("prefix", topfiles.DefaultSkipPrefix, "Skip entries whose name starts with this prefix (empty=none)")
	flags.StringSlice("deny", topfiles.DefaultDeny, "Directories never entered (names or paths)")
	flags.StringP("output", "o", "table", "Output format: table, json or paths")
	flags.StringP("units", "u", UnitsClassic, "Size units: classic, iec or si")
	flags.Bool("errors", false, "List unreadable files and inaccessible directories")
	flags.Duration("progress-interval", topfiles.DefaultProgressInterval, "Progress refresh interval")
	flags.Bool("debug", false, "Enable debug output")
	flags.StringVarP(&cfgFile, "config", "c", "", "Config file (default: <user config dir>/topfiles/config.yaml)")
	flags.BoolP("init", "i", false, "Output init script for shell usage")

	return cmd
}

// splitList splits every element on commas and drops blanks. Viper splits
// environment values on whitespace only, so TOPFILES_DENY=a,b arrives as one
// element.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))

	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}

// optionsFrom resolves the scan options from the merged configuration.
func optionsFrom(v *viper.Viper, args []string) (topfiles.Options, error) {
	options := topfiles.Options{
		Path:             v.GetString("root"),
		Depth:            v.GetInt("depth"),
		TopN:             v.GetInt("num"),
		Workers:          v.GetInt("workers"),
		Engine:           topfiles.Engine(strings.ToLower(v.GetString("engine"))),
		SkipPrefix:       v.GetString("prefix"),
		Deny:             splitList(v.GetStringSlice("deny")),
		ProgressInterval: v.GetDuration("progress-interval"),
		Debug:            v.GetBool("debug"),
		Output:           strings.ToLower(v.GetString("output")),
		Units:            strings.ToLower(v.GetString("units")),
		ShowErrors:       v.GetBool("errors"),
		Integration:      v.GetBool("init"),
	}

	if len(args) > 0 {
		options.Path = args[0]
	}

	if !slices.Contains(allowedOutputs, options.Output) {
		return options, fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
	}

	if !slices.Contains(allowedUnits, options.Units) {
		return options, fmt.Errorf("invalid units %q: must be one of %v", options.Units, allowedUnits)
	}

	if !slices.Contains(topfiles.Engines(), options.Engine) {
		return options, fmt.Errorf("invalid engine %q: must be one of %v", options.Engine, topfiles.Engines())
	}

	if options.Depth < 0 {
		return options, errors.New("depth cannot be negative")
	}

	if options.TopN <= 0 {
		return options, errors.New("num must be positive")
	}

	if options.Workers < 0 {
		return options, errors.New("workers cannot be negative")
	}

	return options, nil
}
