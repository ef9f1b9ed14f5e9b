package domain

// PipelineRun is the mutable state of one file travelling through its pipeline.
// It is created when a file is bound and dropped when the file is finished.
type PipelineRun struct {
	Input  string
	Format Format
	// Cursor is the index of the next step to yield. It only grows.
	Cursor int
	// IsAnimated is set when the GIF branch committed the run to the animated pipeline.
	IsAnimated bool
	// ConvertedToIntermediate is set after the static conversion step succeeded.
	ConvertedToIntermediate bool
}

// NewPipelineRun binds a fresh run to an input file.
func NewPipelineRun(input string, format Format) *PipelineRun {
	return &PipelineRun{Input: input, Format: format}
}

// StepOutcome is the result of executing one step.
type StepOutcome struct {
	Succeeded  bool
	OutputPath string
}

// Capture holds what one external invocation wrote. It belongs to that
// invocation only and is discarded with it.
type Capture struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}
