package optimizer

import "go.trai.ch/smush/internal/core/domain"

// PipelineOptions selects the flag variants of the built-in pipelines.
type PipelineOptions struct {
	Quiet     bool
	StripMeta bool
}

const (
	in  = domain.InputPlaceholder
	out = domain.OutputPlaceholder
)

// DefaultPipelines returns the built-in step lists per format.
func DefaultPipelines(opts PipelineOptions) map[domain.Format]domain.PipelineSpec {
	quiet := func(flag string) []string {
		if opts.Quiet {
			return []string{flag}
		}
		return nil
	}
	step := func(parts ...[]string) domain.StepTemplate {
		var s domain.StepTemplate
		for _, p := range parts {
			s = append(s, p...)
		}
		return s
	}
	args := func(a ...string) []string { return a }

	copyMode := "all"
	if opts.StripMeta {
		copyMode = "none"
	}

	return map[domain.Format]domain.PipelineSpec{
		domain.FormatPNG: mustSpec(
			step(args("optipng"), quiet("-quiet"), args("-force", "-o7", in, "-out", out)),
			// advpng only works in place, so it recompresses a copy.
			step(args("sh", "-c"), args(advpngScript(opts.Quiet)), args("sh", in, out)),
			step(args("pngcrush"), quiet("-q"), args("-rem", "gAMA", "-rem", "alla", "-rem", "cHRM",
				"-rem", "iCCP", "-rem", "sRGB", "-rem", "time", in, out)),
		),
		domain.FormatGIF: mustSpec(
			step(args("convert", in, "png:"+out)),
			step(args("pngnq", "-n", "256", "-o", out, in)),
			step(args("pngcrush", "-rem", "alla", "-brute", "-reduce"), quiet("-q"), args(in, out)),
		),
		domain.FormatAnimatedGIF: mustSpec(
			step(args("gifsicle", "-O2", in, "--output", out)),
		),
		domain.FormatJPEG: mustSpec(
			step(args("jpegtran", "-outfile", out, "-optimise", "-copy", copyMode, in)),
			step(args("jpegtran", "-outfile", out, "-optimise", "-progressive", "-copy", copyMode, in)),
		),
	}
}

func advpngScript(quiet bool) string {
	if quiet {
		return `cp "$1" "$2" && exec advpng -z4 -q "$2"`
	}
	return `cp "$1" "$2" && exec advpng -z4 "$2"`
}

// MergePipelines returns base with the given overrides replacing whole formats.
func MergePipelines(base, overrides map[domain.Format]domain.PipelineSpec) map[domain.Format]domain.PipelineSpec {
	merged := make(map[domain.Format]domain.PipelineSpec, len(base))
	for f, spec := range base {
		merged[f] = spec
	}
	for f, spec := range overrides {
		merged[f] = spec
	}
	return merged
}

func mustSpec(steps ...domain.StepTemplate) domain.PipelineSpec {
	spec, err := domain.NewPipelineSpec(steps...)
	if err != nil {
		panic(err)
	}
	return spec
}
