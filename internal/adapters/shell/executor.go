// Package shell provides an argv based executor for external image tools.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/smush/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec. No shell is involved, so
// paths with spaces or metacharacters reach the program unchanged.
type Executor struct {
	mu        sync.RWMutex
	toolPaths []string
	environ   func() []string
}

// NewExecutor creates a new Executor that inherits the process environment.
func NewExecutor() *Executor {
	return &Executor{environ: os.Environ}
}

// SetToolPaths sets directories that are searched before PATH.
func (e *Executor) SetToolPaths(dirs []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.toolPaths = append([]string(nil), dirs...)
}

// LookPath resolves name against the tool paths and PATH.
func (e *Executor) LookPath(name string) (string, error) {
	return e.resolve(name, e.environment())
}

// Execute runs argv and captures its output for this invocation only.
func (e *Executor) Execute(ctx context.Context, argv []string) (domain.Capture, error) {
	if len(argv) == 0 || argv[0] == "" {
		return domain.Capture{}, zerr.Wrap(domain.ErrLaunchFailed, "empty command")
	}

	env := e.environment()
	name := argv[0]
	executable, err := e.resolve(name, env)
	if err != nil {
		return domain.Capture{ExitCode: -1}, launchError(err, argv)
	}

	scratch := acquireScratch()
	defer scratch.release()

	cmd := exec.CommandContext(ctx, executable, argv[1:]...) //nolint:gosec // argv comes from pipeline templates
	cmd.Args[0] = name
	cmd.Env = env
	cmd.Stdout = &scratch.stdout
	cmd.Stderr = &scratch.stderr

	if err := cmd.Start(); err != nil {
		return domain.Capture{ExitCode: -1}, launchError(err, argv)
	}

	waitErr := cmd.Wait()
	capture := scratch.capture()
	if waitErr == nil {
		return capture, nil
	}

	capture.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		capture.ExitCode = exitErr.ExitCode()
	}

	stepErr := zerr.Wrap(errors.Join(domain.ErrStepFailed, waitErr), "command failed")
	stepErr = zerr.With(stepErr, "command", domain.CommandLine(argv))
	stepErr = zerr.With(stepErr, "exit_code", capture.ExitCode)
	if msg := strings.TrimSpace(string(capture.Stderr)); msg != "" {
		stepErr = zerr.With(stepErr, "stderr", lastLine(msg))
	}
	return capture, stepErr
}

func launchError(err error, argv []string) error {
	launchErr := zerr.Wrap(errors.Join(domain.ErrLaunchFailed, err), "cannot start "+argv[0])
	return zerr.With(launchErr, "command", domain.CommandLine(argv))
}

// environment returns the process environment with the tool paths prepended to PATH.
func (e *Executor) environment() []string {
	e.mu.RLock()
	dirs := e.toolPaths
	e.mu.RUnlock()
	return prependPath(e.environ(), dirs)
}

func (e *Executor) resolve(name string, env []string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if err := findExecutable(name); err != nil {
			return "", err
		}
		return name, nil
	}
	return lookPath(name, env)
}

func prependPath(env, dirs []string) []string {
	out := make([]string, 0, len(env)+1)
	found := false
	extra := strings.Join(dirs, string(os.PathListSeparator))
	for _, entry := range env {
		k, v, ok := strings.Cut(entry, "=")
		if ok && k == "PATH" {
			found = true
			if extra != "" {
				if v != "" {
					v = extra + string(os.PathListSeparator) + v
				} else {
					v = extra
				}
			}
			entry = k + "=" + v
		}
		out = append(out, entry)
	}
	if !found && extra != "" {
		out = append(out, "PATH="+extra)
	}
	return out
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", zerr.With(zerr.Wrap(exec.ErrNotFound, "executable not found"), "name", file)
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// scratch is the stdout/stderr buffer pair of a single invocation.
type scratch struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

var scratchPool = sync.Pool{
	New: func() any { return new(scratch) },
}

func acquireScratch() *scratch {
	s, _ := scratchPool.Get().(*scratch)
	if s == nil {
		s = new(scratch)
	}
	return s
}

// capture copies the buffers out so the scratch can be reused.
func (s *scratch) capture() domain.Capture {
	return domain.Capture{
		Stdout: bytes.Clone(s.stdout.Bytes()),
		Stderr: bytes.Clone(s.stderr.Bytes()),
	}
}

func (s *scratch) release() {
	s.stdout.Reset()
	s.stderr.Reset()
	scratchPool.Put(s)
}
