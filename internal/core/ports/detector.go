package ports

import (
	"context"

	"go.trai.ch/smush/internal/core/domain"
)

// FormatDetector identifies image formats with an external program.
//
//go:generate mockgen -source=detector.go -destination=mocks/mock_detector.go -package=mocks
type FormatDetector interface {
	// Detect returns the format tag for path.
	// Unidentifiable files return an error wrapping domain.ErrUnrecognizedFormat;
	// a detector that cannot be launched returns domain.ErrLaunchFailed.
	Detect(ctx context.Context, path string) (domain.Format, error)

	// Accepts reports whether the identification output for path starts with expected.
	Accepts(ctx context.Context, path string, expected domain.Format) (bool, error)
}
