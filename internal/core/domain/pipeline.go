package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// InputPlaceholder is replaced with the current input path.
	InputPlaceholder = "__INPUT__"
	// OutputPlaceholder is replaced with a fresh temporary output path.
	OutputPlaceholder = "__OUTPUT__"
)

// StepTemplate is the argument vector of one external optimization step.
// Placeholders may appear inside an element, e.g. "png:__OUTPUT__".
type StepTemplate []string

// Name returns the program name of the step.
func (s StepTemplate) Name() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Validate checks that the template has a program and exactly one of each placeholder.
func (s StepTemplate) Validate() error {
	if len(s) == 0 || s[0] == "" {
		return zerr.Wrap(ErrInvalidTemplate, "step has no program")
	}
	inputs, outputs := 0, 0
	for _, arg := range s {
		inputs += strings.Count(arg, InputPlaceholder)
		outputs += strings.Count(arg, OutputPlaceholder)
	}
	if inputs != 1 || outputs != 1 {
		err := zerr.With(zerr.Wrap(ErrInvalidTemplate, "placeholders must appear exactly once"), "command", s.String())
		err = zerr.With(err, "inputs", inputs)
		return zerr.With(err, "outputs", outputs)
	}
	return nil
}

// Expand substitutes the placeholders element-wise and returns a new argv.
// Substitution is a single pass, so placeholder text inside the paths is kept.
func (s StepTemplate) Expand(input, output string) []string {
	r := strings.NewReplacer(InputPlaceholder, input, OutputPlaceholder, output)
	argv := make([]string, len(s))
	for i, arg := range s {
		argv[i] = r.Replace(arg)
	}
	return argv
}

func (s StepTemplate) String() string {
	return CommandLine(s)
}

// PipelineSpec is the immutable ordered list of steps for one format.
type PipelineSpec struct {
	Steps []StepTemplate
}

// NewPipelineSpec validates and copies the given steps.
func NewPipelineSpec(steps ...StepTemplate) (PipelineSpec, error) {
	out := make([]StepTemplate, 0, len(steps))
	for i, step := range steps {
		if err := step.Validate(); err != nil {
			return PipelineSpec{}, zerr.With(err, "step", i)
		}
		out = append(out, slices.Clone(step))
	}
	return PipelineSpec{Steps: out}, nil
}

// Len returns the number of steps.
func (p PipelineSpec) Len() int {
	return len(p.Steps)
}

// At returns the step at index i.
func (p PipelineSpec) At(i int) StepTemplate {
	return p.Steps[i]
}

// Programs returns the distinct program names used by the spec.
func (p PipelineSpec) Programs() []string {
	var names []string
	for _, step := range p.Steps {
		if !slices.Contains(names, step.Name()) {
			names = append(names, step.Name())
		}
	}
	return names
}

// CommandLine renders an argv for logs, quoting arguments that contain blanks or quotes.
func CommandLine(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			parts[i] = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
			continue
		}
		parts[i] = arg
	}
	return strings.Join(parts, " ")
}
