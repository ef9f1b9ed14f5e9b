package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smush/internal/core/domain"
)

func TestStepTemplate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		step    domain.StepTemplate
		wantErr bool
	}{
		{"separate placeholders", domain.StepTemplate{"optipng", "__INPUT__", "-out", "__OUTPUT__"}, false},
		{"embedded placeholder", domain.StepTemplate{"convert", "__INPUT__", "png:__OUTPUT__"}, false},
		{"empty", domain.StepTemplate{}, true},
		{"missing output", domain.StepTemplate{"advpng", "-z4", "__INPUT__"}, true},
		{"duplicate output", domain.StepTemplate{"cp", "__INPUT__", "__OUTPUT__", "__OUTPUT__"}, true},
		{"both in one argument twice", domain.StepTemplate{"x", "__INPUT____INPUT__", "__OUTPUT__"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidTemplate))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestStepTemplate_Expand(t *testing.T) {
	step := domain.StepTemplate{"convert", "__INPUT__", "png:__OUTPUT__"}

	argv := step.Expand("/img/my file.gif", "/tmp/out")

	assert.Equal(t, []string{"convert", "/img/my file.gif", "png:/tmp/out"}, argv)
	assert.Equal(t, "__INPUT__", step[1], "expanding must not mutate the template")
}

func TestStepTemplate_ExpandKeepsPlaceholderTextInPaths(t *testing.T) {
	step := domain.StepTemplate{"gifsicle", "-O2", "__INPUT__", "--output", "__OUTPUT__"}

	argv := step.Expand("/img/__OUTPUT__.gif", "/tmp/__INPUT__.smush")

	assert.Equal(t, []string{"gifsicle", "-O2", "/img/__OUTPUT__.gif", "--output", "/tmp/__INPUT__.smush"}, argv)
}

func TestNewPipelineSpec(t *testing.T) {
	source := domain.StepTemplate{"jpegtran", "-outfile", "__OUTPUT__", "__INPUT__"}
	spec, err := domain.NewPipelineSpec(source, domain.StepTemplate{"jpegtran", "-progressive", "-outfile", "__OUTPUT__", "__INPUT__"})
	require.NoError(t, err)

	source[0] = "mutated"
	assert.Equal(t, 2, spec.Len())
	assert.Equal(t, "jpegtran", spec.At(0).Name())
	assert.Equal(t, []string{"jpegtran"}, spec.Programs())

	_, err = domain.NewPipelineSpec(domain.StepTemplate{"bad"})
	assert.True(t, errors.Is(err, domain.ErrInvalidTemplate))
}

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "optipng -o7 'my file.png'", domain.CommandLine([]string{"optipng", "-o7", "my file.png"}))
	assert.Equal(t, `sh -c 'cp "$1"' ''`, domain.CommandLine([]string{"sh", "-c", `cp "$1"`, ""}))
}
