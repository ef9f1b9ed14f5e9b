// Package main is the entry point for the smush image optimizer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/smush/cmd/smush/commands"
	"go.trai.ch/smush/internal/app"
	"go.trai.ch/smush/internal/core/domain"
	_ "go.trai.ch/smush/internal/wiring"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	})
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A second interrupt terminates the process while a step is still running.
	go func() {
		<-ctx.Done()
		cancel()
	}()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return exitFailure
	}
	defer cleanup()

	components.App.WithOutput(stdout, stderr)
	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrUnrealizedSavings) {
			// The report already told the user which files can shrink.
			return exitFailure
		}
		components.Logger.Error(err)
		if isUsageError(err) {
			return exitUsage
		}
		return exitFailure
	}
	return exitOK
}

func isUsageError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidUsage,
		domain.ErrConfigReadFailed,
		domain.ErrConfigParseFailed,
		domain.ErrUnsupportedVersion,
		domain.ErrInvalidTemplate,
		domain.ErrUnknownFormat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
