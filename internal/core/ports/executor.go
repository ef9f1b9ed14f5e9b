package ports

import (
	"context"

	"go.trai.ch/smush/internal/core/domain"
)

// Executor defines the interface for running external programs.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs argv without a shell and blocks until the program exits.
	//
	// Standard output and error are captured for this invocation only and
	// returned in the Capture, also when the program fails.
	//
	// A program that cannot be started returns an error wrapping
	// domain.ErrLaunchFailed. A program that exits non-zero returns an error
	// wrapping domain.ErrStepFailed.
	Execute(ctx context.Context, argv []string) (domain.Capture, error)

	// LookPath resolves a program name the same way Execute does.
	LookPath(name string) (string, error)

	// SetToolPaths sets directories that are searched before PATH.
	SetToolPaths(dirs []string)
}
