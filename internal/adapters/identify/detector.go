// Package identify detects image formats with ImageMagick's identify.
package identify

import (
	"context"
	"errors"
	"strings"

	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/smush/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultCommand prints the format of every frame, e.g. "GIFGIFGIF" for an
// animated GIF with three frames.
var DefaultCommand = []string{"identify", "-format", "%m"}

var _ ports.FormatDetector = (*Detector)(nil)

// Detector implements ports.FormatDetector on top of an Executor.
type Detector struct {
	executor ports.Executor
	command  []string
}

// NewDetector creates a Detector running DefaultCommand.
func NewDetector(executor ports.Executor) *Detector {
	return &Detector{executor: executor, command: DefaultCommand}
}

// Detect returns the format tag of path.
func (d *Detector) Detect(ctx context.Context, path string) (domain.Format, error) {
	raw, err := d.identify(ctx, path)
	if err != nil {
		return domain.FormatUnknown, err
	}

	format := domain.ParseFormat(raw)
	if format == domain.FormatUnknown {
		err := zerr.With(zerr.Wrap(domain.ErrUnrecognizedFormat, "unsupported format"), "path", path)
		return domain.FormatUnknown, zerr.With(err, "output", raw)
	}
	return format, nil
}

// Accepts reports whether the identification output of path starts with expected.
func (d *Detector) Accepts(ctx context.Context, path string, expected domain.Format) (bool, error) {
	raw, err := d.identify(ctx, path)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(raw, string(expected)), nil
}

// identify runs the command and returns its trimmed stdout.
func (d *Detector) identify(ctx context.Context, path string) (string, error) {
	argv := append(append([]string(nil), d.command...), path)

	capture, err := d.executor.Execute(ctx, argv)
	if err != nil {
		if errors.Is(err, domain.ErrLaunchFailed) {
			return "", err
		}
		return "", zerr.With(zerr.Wrap(errors.Join(domain.ErrUnrecognizedFormat, err), "identify failed"), "path", path)
	}

	raw := strings.TrimSpace(string(capture.Stdout))
	if raw == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrUnrecognizedFormat, "identify printed nothing"), "path", path)
	}
	return raw, nil
}
