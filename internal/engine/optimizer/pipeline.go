package optimizer

import (
	"context"

	"go.trai.ch/smush/internal/core/domain"
)

// BranchFunc decides at the first step whether a run takes the animated branch.
type BranchFunc func(ctx context.Context, path string) bool

// Pipeline is one entry of the dispatch table. Formats without a branch walk
// Spec from start to end. A format with a branch either runs the Animated
// steps or converts to an intermediate with Spec's first step and continues
// with the rest of Spec only when that conversion succeeded.
type Pipeline struct {
	Spec     domain.PipelineSpec
	Animated domain.PipelineSpec
	Branch   BranchFunc
}

// Next yields the step at the run's cursor and advances the cursor.
// It returns false once the run is exhausted.
func (p *Pipeline) Next(ctx context.Context, run *domain.PipelineRun) (domain.StepTemplate, bool) {
	cursor := run.Cursor
	run.Cursor++

	if p.Branch == nil {
		if cursor < p.Spec.Len() {
			return p.Spec.At(cursor), true
		}
		return nil, false
	}

	if cursor == 0 {
		if p.Animated.Len() > 0 && p.Branch(ctx, run.Input) {
			run.IsAnimated = true
			return p.Animated.At(0), true
		}
		if p.Spec.Len() == 0 {
			return nil, false
		}
		return p.Spec.At(0), true
	}

	if run.IsAnimated {
		if cursor < p.Animated.Len() {
			return p.Animated.At(cursor), true
		}
		return nil, false
	}
	if run.ConvertedToIntermediate && cursor < p.Spec.Len() {
		return p.Spec.At(cursor), true
	}
	return nil, false
}

// Observe records the outcome of the step most recently yielded by Next.
func (p *Pipeline) Observe(run *domain.PipelineRun, outcome domain.StepOutcome) {
	if p.Branch == nil || run.IsAnimated {
		return
	}
	if run.Cursor == 1 && outcome.Succeeded {
		run.ConvertedToIntermediate = true
	}
}

// MaxSteps bounds the number of steps Next can yield for one run.
func (p *Pipeline) MaxSteps() int {
	return max(p.Spec.Len(), p.Animated.Len())
}

// BuildPipelines turns per-format specs into the dispatch table. The GIF
// entry branches on branch into the animated GIF spec.
func BuildPipelines(specs map[domain.Format]domain.PipelineSpec, branch BranchFunc) map[domain.Format]*Pipeline {
	table := make(map[domain.Format]*Pipeline, len(specs))
	for f, spec := range specs {
		table[f] = &Pipeline{Spec: spec}
	}
	if gif, ok := table[domain.FormatGIF]; ok && branch != nil {
		gif.Animated = specs[domain.FormatAnimatedGIF]
		gif.Branch = branch
	}
	return table
}

// Programs lists every distinct program the table can launch.
func Programs(table map[domain.Format]*Pipeline) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, f := range domain.Formats() {
		p, ok := table[f]
		if !ok {
			continue
		}
		for _, spec := range []domain.PipelineSpec{p.Spec, p.Animated} {
			for _, name := range spec.Programs() {
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	return names
}
