package optimizer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/smush/internal/engine/optimizer"
)

func spec(t *testing.T, names ...string) domain.PipelineSpec {
	t.Helper()
	steps := make([]domain.StepTemplate, 0, len(names))
	for _, name := range names {
		steps = append(steps, domain.StepTemplate{name, domain.InputPlaceholder, domain.OutputPlaceholder})
	}
	s, err := domain.NewPipelineSpec(steps...)
	require.NoError(t, err)
	return s
}

// drain calls Next until exhaustion, marking every step as succeeded unless
// it is listed in failing.
func drain(p *optimizer.Pipeline, run *domain.PipelineRun, failing ...string) (names []string, calls int) {
	for {
		calls++
		step, ok := p.Next(context.Background(), run)
		if !ok {
			return names, calls
		}
		names = append(names, step.Name())
		succeeded := true
		for _, f := range failing {
			if f == step.Name() {
				succeeded = false
			}
		}
		p.Observe(run, domain.StepOutcome{Succeeded: succeeded})
	}
}

func TestPipeline_FlatWalksInOrder(t *testing.T) {
	t.Parallel()

	p := &optimizer.Pipeline{Spec: spec(t, "optipng", "advpng", "pngcrush")}
	run := domain.NewPipelineRun("a.png", domain.FormatPNG)

	names, calls := drain(p, run, "advpng")

	assert.Equal(t, []string{"optipng", "advpng", "pngcrush"}, names)
	assert.Equal(t, 4, calls)
	assert.False(t, run.IsAnimated)
	assert.False(t, run.ConvertedToIntermediate)
}

func TestPipeline_CursorBound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pipeline *optimizer.Pipeline
		animated bool
		failing  []string
	}{
		{name: "flat", pipeline: &optimizer.Pipeline{Spec: spec(t, "a", "b", "c")}},
		{name: "empty", pipeline: &optimizer.Pipeline{}},
		{name: "static gif", pipeline: gifPipeline(t, false)},
		{name: "static gif failed conversion", pipeline: gifPipeline(t, false), failing: []string{"convert"}},
		{name: "animated gif", pipeline: gifPipeline(t, true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			run := domain.NewPipelineRun("img", domain.FormatGIF)
			_, calls := drain(tt.pipeline, run, tt.failing...)
			assert.LessOrEqual(t, calls, tt.pipeline.MaxSteps()+1)

			// Exhausted runs stay exhausted.
			_, ok := tt.pipeline.Next(context.Background(), run)
			assert.False(t, ok)
		})
	}
}

func gifPipeline(t *testing.T, animated bool) *optimizer.Pipeline {
	t.Helper()
	return &optimizer.Pipeline{
		Spec:     spec(t, "convert", "pngnq", "pngcrush"),
		Animated: spec(t, "gifsicle"),
		Branch:   func(context.Context, string) bool { return animated },
	}
}

func TestPipeline_GIFBranchExclusivity(t *testing.T) {
	t.Parallel()

	t.Run("animated never converts", func(t *testing.T) {
		t.Parallel()

		run := domain.NewPipelineRun("anim.gif", domain.FormatGIF)
		names, _ := drain(gifPipeline(t, true), run)

		assert.Equal(t, []string{"gifsicle"}, names)
		assert.True(t, run.IsAnimated)
		assert.False(t, run.ConvertedToIntermediate)
	})

	t.Run("static never runs the animated step", func(t *testing.T) {
		t.Parallel()

		run := domain.NewPipelineRun("still.gif", domain.FormatGIF)
		names, _ := drain(gifPipeline(t, false), run)

		assert.Equal(t, []string{"convert", "pngnq", "pngcrush"}, names)
		assert.False(t, run.IsAnimated)
		assert.True(t, run.ConvertedToIntermediate)
	})

	t.Run("failed conversion stops the static chain", func(t *testing.T) {
		t.Parallel()

		run := domain.NewPipelineRun("broken.gif", domain.FormatGIF)
		names, _ := drain(gifPipeline(t, false), run, "convert")

		assert.Equal(t, []string{"convert"}, names)
		assert.False(t, run.ConvertedToIntermediate)
	})

	t.Run("later failures keep the chain going", func(t *testing.T) {
		t.Parallel()

		run := domain.NewPipelineRun("still.gif", domain.FormatGIF)
		names, _ := drain(gifPipeline(t, false), run, "pngnq")

		assert.Equal(t, []string{"convert", "pngnq", "pngcrush"}, names)
	})
}

func TestPipeline_BranchIsAskedOnce(t *testing.T) {
	t.Parallel()

	asked := 0
	p := gifPipeline(t, false)
	p.Branch = func(context.Context, string) bool {
		asked++
		return false
	}

	drain(p, domain.NewPipelineRun("still.gif", domain.FormatGIF))
	assert.Equal(t, 1, asked)
}

func TestBuildPipelines(t *testing.T) {
	t.Parallel()

	specs := optimizer.DefaultPipelines(optimizer.PipelineOptions{})
	table := optimizer.BuildPipelines(specs, func(context.Context, string) bool { return true })

	require.Len(t, table, 4)
	assert.NotNil(t, table[domain.FormatGIF].Branch)
	assert.Equal(t, "gifsicle", table[domain.FormatGIF].Animated.At(0).Name())
	assert.Nil(t, table[domain.FormatPNG].Branch)
	assert.Nil(t, table[domain.FormatAnimatedGIF].Branch)

	assert.Equal(t,
		[]string{"optipng", "sh", "pngcrush", "jpegtran", "convert", "pngnq", "gifsicle"},
		optimizer.Programs(table))
}
