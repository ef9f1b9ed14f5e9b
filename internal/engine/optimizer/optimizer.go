// Package optimizer drives image files through their per-format step pipelines.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/smush/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options controls how the Optimizer treats files.
type Options struct {
	// Commit overwrites originals with smaller candidates. Without it the
	// run only reports what could be saved.
	Commit bool
	Quiet  bool
	// MinPercent is the saving a list-only candidate must exceed to be recorded.
	MinPercent int
	// StepTimeout bounds each external step. Zero means no limit.
	StepTimeout time.Duration
	// SaveOptimized mirrors qualifying list-only candidates below this directory.
	SaveOptimized string
	// TempDir holds step outputs. Empty means the system default.
	TempDir string
	// Pipelines is the step list per format.
	Pipelines map[domain.Format]domain.PipelineSpec
}

// Optimizer runs one file at a time through its pipeline and records the
// results in a RunStats.
type Optimizer struct {
	executor ports.Executor
	detector ports.FormatDetector
	hasher   ports.Hasher
	logger   ports.Logger
	tracer   ports.Tracer
	table    map[domain.Format]*Pipeline
	arbiter  *SizeArbiter
	stats    *domain.RunStats
	opts     Options
}

// New creates an Optimizer. The GIF pipeline branches on an
// AnimatedMediaPolicy built from detector.
func New(
	executor ports.Executor,
	detector ports.FormatDetector,
	hasher ports.Hasher,
	logger ports.Logger,
	tracer ports.Tracer,
	stats *domain.RunStats,
	opts Options,
) *Optimizer {
	policy := NewAnimatedMediaPolicy(detector, logger, opts.Quiet)
	return &Optimizer{
		executor: executor,
		detector: detector,
		hasher:   hasher,
		logger:   logger,
		tracer:   tracer,
		table:    BuildPipelines(opts.Pipelines, policy.IsAnimated),
		arbiter:  NewSizeArbiter(opts.MinPercent),
		stats:    stats,
		opts:     opts,
	}
}

// Stats returns the accumulator the Optimizer writes to.
func (o *Optimizer) Stats() *domain.RunStats {
	return o.stats
}

// Process detects the format of path and runs its pipeline. root is the
// argument the walk started from; save-optimized copies keep their path
// relative to it.
//
// Only fatal errors are returned. Unidentifiable files and failing steps
// are logged and skipped. Once ctx is cancelled no new step is started,
// but a running step is allowed to finish.
func (o *Optimizer) Process(ctx context.Context, path, root string) error {
	format, err := o.detector.Detect(context.WithoutCancel(ctx), path)
	if err != nil {
		if errors.Is(err, domain.ErrLaunchFailed) {
			return err
		}
		o.warn(fmt.Sprintf("%s is not a supported image: %v", path, err))
		return nil
	}

	pipeline, ok := o.table[format]
	if !ok {
		o.warn(fmt.Sprintf("No pipeline configured for %s (%s)", path, format))
		return nil
	}
	o.stats.RecordScanned(format)

	ctx, span := o.tracer.Start(ctx, path)
	defer span.End()
	span.SetAttribute(ports.AttrFormat, string(format))

	run := domain.NewPipelineRun(path, format)
	if o.opts.Commit {
		err = o.commit(ctx, pipeline, run)
	} else {
		err = o.listOnly(ctx, pipeline, run, root)
	}
	span.SetAttribute(ports.AttrAnimated, run.IsAnimated)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// commit replaces the original after every step that produced a smaller file.
func (o *Optimizer) commit(ctx context.Context, p *Pipeline, run *domain.PipelineRun) error {
	initial, err := sizeOf(run.Input)
	if err != nil {
		return err
	}

	for ctx.Err() == nil {
		step, ok := p.Next(context.WithoutCancel(ctx), run)
		if !ok {
			break
		}
		outcome, err := o.runStep(ctx, step, run.Input)
		if err != nil {
			return err
		}
		p.Observe(run, outcome)
		if !outcome.Succeeded {
			continue
		}

		_, err = o.arbiter.Consider(run.Input, outcome.OutputPath)
		removeQuietly(outcome.OutputPath)
		if err != nil {
			return err
		}
	}

	final, err := sizeOf(run.Input)
	if err != nil {
		return err
	}
	if final < initial {
		o.stats.RecordOptimized(run.Format, initial-final)
	}
	return nil
}

// listOnly chains every step on the smallest candidate so far and evaluates
// the survivor once the pipeline is exhausted. The original is never written.
func (o *Optimizer) listOnly(ctx context.Context, p *Pipeline, run *domain.PipelineRun, root string) error {
	fingerprint, hashErr := o.hasher.ComputeFileHash(run.Input)

	var survivor string
	defer func() {
		if survivor != "" {
			removeQuietly(survivor)
		}
	}()

	for ctx.Err() == nil {
		step, ok := p.Next(context.WithoutCancel(ctx), run)
		if !ok {
			break
		}
		input := run.Input
		if survivor != "" {
			input = survivor
		}

		outcome, err := o.runStep(ctx, step, input)
		if err != nil {
			return err
		}
		p.Observe(run, outcome)
		if !outcome.Succeeded {
			continue
		}

		// The intermediate always carries on, whatever its size.
		keep := p.Branch != nil && run.ConvertedToIntermediate && run.Cursor == 1
		if !keep {
			keep, err = o.arbiter.Improves(input, outcome.OutputPath)
			if err != nil {
				removeQuietly(outcome.OutputPath)
				return err
			}
		}
		if !keep {
			removeQuietly(outcome.OutputPath)
			continue
		}
		if survivor != "" {
			removeQuietly(survivor)
		}
		survivor = outcome.OutputPath
	}

	if hashErr == nil {
		if after, err := o.hasher.ComputeFileHash(run.Input); err == nil && after != fingerprint {
			o.warn(fmt.Sprintf("%s was modified by a step; check the pipeline writes only to %s",
				run.Input, domain.OutputPlaceholder))
		}
	}

	if survivor == "" {
		return nil
	}
	record, err := o.arbiter.Evaluate(run.Input, survivor)
	if err != nil || record == nil {
		return err
	}
	o.stats.AddRecord(*record)

	if o.opts.SaveOptimized == "" {
		return nil
	}
	return o.saveOptimized(run.Input, root, survivor)
}

// runStep executes one step on input. A failing step yields an unsuccessful
// outcome; only launch failures are returned as errors.
func (o *Optimizer) runStep(ctx context.Context, step domain.StepTemplate, input string) (domain.StepOutcome, error) {
	output, err := o.tempPath()
	if err != nil {
		return domain.StepOutcome{}, err
	}

	argv := step.Expand(input, output)
	o.logger.Info("Executing " + domain.CommandLine(argv))

	ctx, span := o.tracer.Start(ctx, step.Name())
	defer span.End()

	stepCtx := context.WithoutCancel(ctx)
	if o.opts.StepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(stepCtx, o.opts.StepTimeout)
		defer cancel()
	}

	capture, err := o.executor.Execute(stepCtx, argv)
	if err != nil {
		removeQuietly(output)
		span.SetAttribute(ports.AttrExitCode, capture.ExitCode)
		span.RecordError(err)
		if errors.Is(err, domain.ErrLaunchFailed) {
			return domain.StepOutcome{}, err
		}
		o.logger.Info(fmt.Sprintf("%s did not succeed on %s: %v", step.Name(), input, err))
		return domain.StepOutcome{OutputPath: output}, nil
	}
	return domain.StepOutcome{Succeeded: true, OutputPath: output}, nil
}

// tempPath reserves a unique name for a step output and frees it again, so
// the step creates the file itself.
func (o *Optimizer) tempPath() (string, error) {
	f, err := os.CreateTemp(o.opts.TempDir, domain.TempPattern)
	if err != nil {
		return "", zerr.Wrap(errors.Join(domain.ErrTempFileFailed, err), "cannot create temporary file")
	}
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil {
		return "", zerr.Wrap(errors.Join(domain.ErrTempFileFailed, err), "cannot create temporary file")
	}
	return name, nil
}

func (o *Optimizer) saveOptimized(original, root, candidate string) error {
	rel := filepath.Base(original)
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		if r, err := filepath.Rel(root, original); err == nil {
			rel = r
		}
	}
	dest := filepath.Join(o.opts.SaveOptimized, rel)

	o.logger.Info("Saving optimised image to " + dest)
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrSaveOptimizedFailed, err), "cannot create directory"), "path", filepath.Dir(dest))
	}
	if err := copyFile(dest, candidate); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrSaveOptimizedFailed, err), "cannot save optimised copy"), "path", dest)
	}
	return nil
}

func (o *Optimizer) warn(msg string) {
	if !o.opts.Quiet {
		o.logger.Warn(msg)
	}
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}
