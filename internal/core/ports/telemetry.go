package ports

import "context"

// Span attributes understood by the progress renderer.
const (
	// AttrFormat is the detected format tag of a file span.
	AttrFormat = "smush.format"
	// AttrAnimated marks a file span whose GIF took the animated branch.
	AttrAnimated = "smush.animated"
	// AttrExitCode is the exit status of a failed step span.
	AttrExitCode = "smush.exit_code"
)

// Tracer defines the interface for tracing file and step execution.
//
//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}
