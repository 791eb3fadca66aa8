package main

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/perbu/stmtree/pkg/config"
	"github.com/perbu/stmtree/pkg/formatter"
	"github.com/perbu/stmtree/pkg/harness"
	"github.com/perbu/stmtree/pkg/stmtspec"
)

//go:embed .version
var embeddedVersion string

// errFixturesFailed signals a completed check with failing fixtures. The
// details have already been written, so main only sets the exit code.
var errFixturesFailed = errors.New("fixtures failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := bufio.NewWriter(os.Stdout)
	atexit.Register(func() {
		_ = out.Flush()
	})

	code := 0
	if err := run(ctx, os.Args[1:], out, os.Stderr); err != nil {
		if !errors.Is(err, errFixturesFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		code = 1
	}
	atexit.Exit(code)
}

// options holds the persistent flags shared by every subcommand
type options struct {
	verbose    bool
	noColor    bool
	configFile string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "stmtree",
		Short:         "Build and check BL statement trees",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable color output")
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")

	root.AddCommand(
		newCheckCmd(opts),
		newDumpCmd(opts),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and creates the logger
func (o *options) setup(stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	level := cfg.Level()
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	}))
	return cfg, logger, nil
}

func (o *options) useColor(cfg *config.Config) bool {
	if o.noColor {
		return false
	}
	return formatter.UseColor(cfg.Color)
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [fixture-file...]",
		Short: "Build every fixture and verify its expectations",
		Long: `Build every fixture through a workspace, check its expectations and
verify that disassembling and reassembling it gives back the same tree.

Without arguments the fixture patterns from the config file are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			files := args
			if len(files) == 0 {
				files, err = cfg.FixtureFiles()
				if err != nil {
					return err
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("missing fixture file argument")
			}

			h := harness.New(&harness.Config{
				FixtureFiles:   files,
				Broker:         cfg.Broker,
				PublishTimeout: cfg.PublishTimeout,
				Verbose:        opts.verbose,
				Logger:         logger,
			})
			result, err := h.Run(cmd.Context())
			if err != nil {
				return err
			}

			useColor := opts.useColor(cfg)
			out := cmd.OutOrStdout()
			for i := range result.Results {
				fmt.Fprint(out, formatter.FormatResult(&result.Results[i], useColor))
			}
			formatter.WriteSummary(out, result.Results, useColor)
			logger.Debug("Journal", "edits", result.Edits, "rejected", result.Rejected)

			if result.Failed > 0 {
				return errFixturesFailed
			}
			return nil
		},
	}
}

func newDumpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <fixture-file>",
		Short: "Print the statement tree of every fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			fixtures, err := stmtspec.Load(args[0])
			if err != nil {
				return err
			}
			logger.Debug("Loaded fixtures", "file", args[0], "count", len(fixtures))

			useColor := opts.useColor(cfg)
			out := cmd.OutOrStdout()
			for i, f := range fixtures {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "# %s\n", f.Name)
				fmt.Fprint(out, formatter.FormatTree(stmtspec.Build(f.Statement), useColor))
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stmtree version %s\n", strings.TrimSpace(embeddedVersion))
		},
	}
}
