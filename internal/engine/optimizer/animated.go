package optimizer

import (
	"context"
	"fmt"

	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/smush/internal/core/ports"
)

// AnimatedMediaPolicy tells animated GIFs from static ones.
type AnimatedMediaPolicy struct {
	detector ports.FormatDetector
	logger   ports.Logger
	quiet    bool
}

// NewAnimatedMediaPolicy creates a policy that asks detector about each file.
func NewAnimatedMediaPolicy(detector ports.FormatDetector, logger ports.Logger, quiet bool) *AnimatedMediaPolicy {
	return &AnimatedMediaPolicy{detector: detector, logger: logger, quiet: quiet}
}

// IsAnimated reports whether path is an animated GIF. Any detection failure
// counts as static.
func (p *AnimatedMediaPolicy) IsAnimated(ctx context.Context, path string) bool {
	ok, err := p.detector.Accepts(ctx, path, domain.FormatAnimatedGIF)
	if err != nil {
		if !p.quiet {
			p.logger.Warn(fmt.Sprintf("Cannot tell whether %s is animated, treating it as static: %v", path, err))
		}
		return false
	}
	return ok
}
