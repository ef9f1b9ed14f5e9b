package ports

import "time"

// SpanResult is what a finished file or step span reports.
type SpanResult struct {
	EndTime time.Time
	Err     error
	// ExitCode is the exit status of a step that ran and failed.
	// It is -1 when the span carries none.
	ExitCode int
	// Format and Animated are set on file spans.
	Format   string
	Animated bool
}

// Renderer receives step progress events.
// Events are emitted by the telemetry bridge from finished spans.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnStepStart is called when a file or an external step begins.
	OnStepStart(spanID, parentID, name string, startTime time.Time)

	// OnStepComplete is called when a file or an external step ends.
	OnStepComplete(spanID string, result SpanResult)
}
