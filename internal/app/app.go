// Package app implements the application layer for smush.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/smush/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/smush/internal/adapters/identify"  //nolint:depguard // Wired in app layer
	"go.trai.ch/smush/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/smush/internal/adapters/report"    //nolint:depguard // Wired in app layer
	"go.trai.ch/smush/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/smush/internal/core/ports"
	"go.trai.ch/smush/internal/engine/optimizer"
	"go.trai.ch/smush/internal/engine/preflight"
	"go.trai.ch/smush/internal/ui/output"
	"go.trai.ch/smush/internal/ui/style"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	detector     ports.FormatDetector
	hasher       ports.Hasher
	logger       ports.Logger
	walker       *fs.Walker
	stdout       io.Writer
	stderr       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	detector ports.FormatDetector,
	hasher ports.Hasher,
	log ports.Logger,
	walker *fs.Walker,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		detector:     detector,
		hasher:       hasher,
		logger:       log,
		walker:       walker,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput redirects the report and step progress.
// This is primarily used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// RunOptions configuration for the Run and Check methods.
// Nil pointers were not given on the command line and fall back to the
// configuration file, then to the built-in defaults.
type RunOptions struct {
	Recursive     *bool
	Quiet         bool
	StripMeta     *bool
	IdentifyMIME  *bool
	MinPercent    *int
	Exclude       []string
	SaveOptimized string
	Commit        bool
	StepTimeout   time.Duration
	// ConfigPath skips configuration discovery when set.
	ConfigPath string
}

// settings are RunOptions merged with the configuration file.
type settings struct {
	walk      fs.WalkOptions
	optimizer optimizer.Options
}

// Run optimizes or inspects every image below paths and prints the report.
//
// In list-only mode the returned error wraps domain.ErrUnrealizedSavings
// when at least one file could be made smaller. An interrupted run stops
// scheduling files and still prints the report.
//
//nolint:cyclop // orchestration function
func (a *App) Run(ctx context.Context, paths []string, opts RunOptions) error {
	if len(paths) == 0 {
		return zerr.Wrap(domain.ErrInvalidUsage, "no paths given")
	}

	s, err := a.prepare(opts)
	if err != nil {
		return err
	}

	if dir := s.optimizer.SaveOptimized; dir != "" {
		if err := os.RemoveAll(dir); err != nil {
			return zerr.With(zerr.Wrap(errors.Join(domain.ErrSaveOptimizedFailed, err), "cannot clear directory"), "path", dir)
		}
	}

	tracer := a.tracer(opts.Quiet)
	defer func() {
		if t, ok := tracer.(*telemetry.OTelTracer); ok {
			_ = t.Shutdown(context.WithoutCancel(ctx))
		}
	}()

	stats := domain.NewRunStats(time.Now())
	opt := optimizer.New(a.executor, a.detector, a.hasher, a.logger, tracer, stats, s.optimizer)

	for _, root := range paths {
		if ctx.Err() != nil {
			break
		}
		for file, walkErr := range a.walker.Walk(root, s.walk) {
			if ctx.Err() != nil {
				break
			}
			if walkErr != nil {
				if !opts.Quiet {
					a.logger.Warn(walkErr.Error())
				}
				continue
			}
			if err := opt.Process(ctx, file, root); err != nil {
				return err
			}
		}
	}

	if ctx.Err() != nil {
		stats.Aborted = true
		a.logger.Info("Smushing aborted")
	} else {
		a.logger.Info("Smushing finished")
	}

	listOnly := !opts.Commit
	out := a.stdout
	if listOnly && stats.HasRecords() {
		out = a.stderr
	}
	if err := report.NewRenderer(out, report.Options{Commit: opts.Commit}).Render(stats, time.Now()); err != nil {
		return zerr.Wrap(err, "failed to write report")
	}

	if listOnly && stats.HasRecords() {
		return zerr.With(zerr.Wrap(domain.ErrUnrealizedSavings, "files can be optimised"), "count", len(stats.Records))
	}
	return nil
}

// Check looks up every program the configured pipelines need and prints
// where each one was found.
func (a *App) Check(ctx context.Context, opts RunOptions) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}

	table := optimizer.BuildPipelines(s.optimizer.Pipelines, func(context.Context, string) bool { return false })
	programs := append([]string{identify.DefaultCommand[0]}, optimizer.Programs(table)...)

	tools, checkErr := preflight.Check(ctx, a.executor, programs)
	if checkErr != nil && !errors.Is(checkErr, domain.ErrToolsMissing) {
		return checkErr
	}

	r := lipgloss.NewRenderer(a.stdout)
	r.SetColorProfile(output.ColorProfileFor(a.stdout))
	found := r.NewStyle().Foreground(style.Green).Render(style.Check)
	missing := r.NewStyle().Foreground(style.Red).Render(style.Cross)
	for _, tool := range tools {
		if tool.Found() {
			_, _ = fmt.Fprintf(a.stdout, "%s %-10s %s\n", found, tool.Name, tool.Path)
			continue
		}
		_, _ = fmt.Fprintf(a.stdout, "%s %-10s not found\n", missing, tool.Name)
	}
	return checkErr
}

// prepare loads the configuration and merges it with opts. It also applies
// the quiet level and the configured tool paths.
func (a *App) prepare(opts RunOptions) (settings, error) {
	a.logger.SetQuiet(opts.Quiet)

	var (
		cfg *domain.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = a.configLoader.LoadFile(opts.ConfigPath)
	} else {
		cfg, err = a.configLoader.Load(".")
	}
	if err != nil {
		return settings{}, zerr.Wrap(err, "failed to load configuration")
	}
	if cfg == nil {
		cfg = &domain.Config{}
	}
	if !cfg.Empty() {
		a.logger.Info("Using configuration " + cfg.Path)
	}

	a.executor.SetToolPaths(cfg.ToolPaths)

	minPercent := pick(opts.MinPercent, cfg.MinPercent, domain.DefaultMinPercent)
	if minPercent < 0 {
		return settings{}, zerr.With(zerr.Wrap(domain.ErrInvalidUsage, "min-percent must not be negative"), "min_percent", minPercent)
	}

	defaults := optimizer.DefaultPipelines(optimizer.PipelineOptions{
		Quiet:     opts.Quiet,
		StripMeta: pick(opts.StripMeta, cfg.StripMeta, false),
	})

	return settings{
		walk: fs.WalkOptions{
			Recursive:    pick(opts.Recursive, cfg.Recursive, false),
			Exclude:      fs.MergeExcludes(domain.DefaultExcludes(), cfg.Exclude, opts.Exclude),
			IdentifyMIME: pick(opts.IdentifyMIME, cfg.IdentifyMIME, false),
		},
		optimizer: optimizer.Options{
			Commit:        opts.Commit,
			Quiet:         opts.Quiet,
			MinPercent:    minPercent,
			StepTimeout:   opts.StepTimeout,
			SaveOptimized: opts.SaveOptimized,
			Pipelines:     optimizer.MergePipelines(defaults, cfg.Pipelines),
		},
	}, nil
}

// tracer returns a tracer that reports step progress on stderr, or one that
// records nothing in quiet mode.
func (a *App) tracer(quiet bool) ports.Tracer {
	if quiet {
		return telemetry.NewNoOpTracer()
	}
	return telemetry.NewOTelTracer(linear.NewRenderer(a.stderr))
}

// pick returns the flag value if set, then the config value, then def.
func pick[T any](flag, cfg *T, def T) T {
	if flag != nil {
		return *flag
	}
	if cfg != nil {
		return *cfg
	}
	return def
}
