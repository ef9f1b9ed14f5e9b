// Package commands implements the command line interface for smush.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/smush/internal/app"
	"go.trai.ch/smush/internal/build"
	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for smush.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	flags   flags
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, paths []string, opts app.RunOptions) error
	Check(ctx context.Context, opts app.RunOptions) error
}

type flags struct {
	recursive     bool
	quiet         bool
	stripMeta     bool
	identifyMIME  bool
	commit        bool
	check         bool
	minPercent    int
	exclude       []string
	saveOptimized string
	configPath    string
	stepTimeout   time.Duration
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:   "smush [flags] PATH...",
		Short: "Losslessly shrink PNG, GIF and JPEG images with external optimizers",
		Long: `smush runs every image below the given paths through a pipeline of
external optimizers and keeps the smallest lossless result.

By default nothing is modified: smush lists the files that could be made
smaller and exits with status 1 if there are any. Pass --write to replace
the originals.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		RunE:          c.run,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return zerr.Wrap(errors.Join(domain.ErrInvalidUsage, err), "cannot parse arguments")
	})

	f := rootCmd.Flags()
	f.BoolVarP(&c.flags.recursive, "recursive", "r", false, "Descend into directories")
	f.BoolVarP(&c.flags.quiet, "quiet", "q", false, "Only print errors and the final report")
	f.BoolVarP(&c.flags.stripMeta, "strip-meta", "s", false, "Drop JPEG metadata (EXIF, comments)")
	f.BoolVarP(&c.flags.commit, "write", "w", false, "Replace originals with their optimized versions")
	f.BoolVar(&c.flags.identifyMIME, "identify-mime", false, "Skip files whose extension is not an image type")
	f.IntVar(&c.flags.minPercent, "min-percent", 0,
		fmt.Sprintf("Only list files that shrink by more than this percentage (default %d)", domain.DefaultMinPercent))
	f.StringSliceVar(&c.flags.exclude, "exclude", nil, "Comma separated glob patterns to skip")
	f.StringVar(&c.flags.saveOptimized, "save-optimized", "",
		"Copy optimized candidates into this directory (cleared first)")
	f.StringVar(&c.flags.configPath, "config", "", "Read configuration from this file instead of .smush.yaml")
	f.DurationVar(&c.flags.stepTimeout, "step-timeout", 0, "Abort a single optimizer step after this long (0 disables)")
	f.BoolVar(&c.flags.check, "check", false, "Report which required programs are installed and exit")

	c.rootCmd = rootCmd
	return c
}

func (c *CLI) run(cmd *cobra.Command, args []string) error {
	opts := c.options(cmd)

	if c.flags.check {
		return c.app.Check(cmd.Context(), opts)
	}

	if len(args) == 0 {
		// Display command usage help without returning an error
		_ = cmd.Help()
		return nil
	}

	return c.app.Run(cmd.Context(), args, opts)
}

// options converts the parsed flags into app.RunOptions. Flags that were not
// given stay nil so the configuration file can supply them.
func (c *CLI) options(cmd *cobra.Command) app.RunOptions {
	changed := cmd.Flags().Changed
	opts := app.RunOptions{
		Quiet:         c.flags.quiet,
		Exclude:       c.flags.exclude,
		SaveOptimized: c.flags.saveOptimized,
		Commit:        c.flags.commit,
		StepTimeout:   c.flags.stepTimeout,
		ConfigPath:    c.flags.configPath,
	}
	if changed("recursive") {
		opts.Recursive = &c.flags.recursive
	}
	if changed("strip-meta") {
		opts.StripMeta = &c.flags.stripMeta
	}
	if changed("identify-mime") {
		opts.IdentifyMIME = &c.flags.identifyMIME
	}
	if changed("min-percent") {
		opts.MinPercent = &c.flags.minPercent
	}
	return opts
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
