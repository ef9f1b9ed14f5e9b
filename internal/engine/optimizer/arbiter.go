package optimizer

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/zerr"
)

// SizeArbiter compares candidate outputs against the file they were made from.
type SizeArbiter struct {
	// MinPercent is the saving a list-only candidate must exceed to be recorded.
	MinPercent int
}

// NewSizeArbiter creates an arbiter with the given threshold.
func NewSizeArbiter(minPercent int) *SizeArbiter {
	return &SizeArbiter{MinPercent: minPercent}
}

// Consider replaces original with candidate when the candidate is non-empty
// and strictly smaller. The original is overwritten in place so that its
// permissions and identity are kept. It reports whether the original changed.
func (a *SizeArbiter) Consider(original, candidate string) (bool, error) {
	better, err := a.Improves(original, candidate)
	if err != nil || !better {
		return false, err
	}
	if err := overwrite(original, candidate); err != nil {
		return false, zerr.With(zerr.Wrap(errors.Join(domain.ErrPromotionFailed, err), "cannot replace original"), "path", original)
	}
	return true, nil
}

// Improves reports whether candidate is non-empty and strictly smaller than reference.
// A missing candidate never improves.
func (a *SizeArbiter) Improves(reference, candidate string) (bool, error) {
	candidateSize, err := sizeOf(candidate)
	if err != nil {
		return false, err
	}
	if candidateSize == 0 {
		return false, nil
	}
	referenceSize, err := sizeOf(reference)
	if err != nil {
		return false, err
	}
	return candidateSize < referenceSize, nil
}

// Evaluate returns a record when candidate saves strictly more than MinPercent
// of original. It never modifies either file.
func (a *SizeArbiter) Evaluate(original, candidate string) (*domain.OptimizationRecord, error) {
	originalSize, err := sizeOf(original)
	if err != nil {
		return nil, err
	}
	candidateSize, err := sizeOf(candidate)
	if err != nil {
		return nil, err
	}
	if candidateSize == 0 || candidateSize >= originalSize {
		return nil, nil
	}
	record := domain.NewOptimizationRecord(original, originalSize, candidateSize)
	if record.BytesSavedPercent <= a.MinPercent {
		return nil, nil
	}
	return &record, nil
}

// sizeOf returns the size of path, or 0 when it does not exist.
func sizeOf(path string) (int64, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "cannot stat file"), "path", path)
	}
	return info.Size(), nil
}

func overwrite(dst, src string) error {
	in, err := os.Open(src) //nolint:gosec // candidate paths are created by us
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_TRUNC, 0) //nolint:gosec // dst is a walked input
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// copyFile writes src to a new or truncated dst.
func copyFile(dst, src string) error {
	in, err := os.Open(src) //nolint:gosec // candidate paths are created by us
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, domain.FilePerm) //nolint:gosec // dst is below the save directory
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
