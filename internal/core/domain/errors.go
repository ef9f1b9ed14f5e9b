package domain

import "go.trai.ch/zerr"

var (
	// ErrLaunchFailed is returned when an external program could not be started at all.
	// It aborts the whole run.
	ErrLaunchFailed = zerr.New("failed to launch external command")

	// ErrStepFailed is returned when an external program started but exited unsuccessfully.
	ErrStepFailed = zerr.New("external command failed")

	// ErrUnrecognizedFormat is returned when the format of a file cannot be identified.
	ErrUnrecognizedFormat = zerr.New("cannot identify image format")

	// ErrPromotionFailed is returned when a winning candidate cannot be copied over the original.
	ErrPromotionFailed = zerr.New("failed to replace original with optimized candidate")

	// ErrUnrealizedSavings is returned when a list-only run found files that could be optimized.
	ErrUnrealizedSavings = zerr.New("files can be optimized")

	// ErrInvalidUsage is returned when the command line arguments are invalid.
	ErrInvalidUsage = zerr.New("invalid usage")

	// ErrInvalidTemplate is returned when a pipeline step template does not contain
	// exactly one input and one output placeholder.
	ErrInvalidTemplate = zerr.New("invalid step template")

	// ErrUnknownFormat is returned when a configuration references an unsupported format.
	ErrUnknownFormat = zerr.New("unknown image format")

	// ErrToolsMissing is returned by the preflight check when required tools are not installed.
	ErrToolsMissing = zerr.New("required tools are missing")

	// ErrConfigReadFailed is returned when the configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedVersion is returned when the configuration schema version is not supported.
	ErrUnsupportedVersion = zerr.New("unsupported config version")

	// ErrSaveOptimizedFailed is returned when a candidate cannot be mirrored into the save-optimized tree.
	ErrSaveOptimizedFailed = zerr.New("failed to save optimized copy")

	// ErrTempFileFailed is returned when a temporary output path cannot be allocated.
	ErrTempFileFailed = zerr.New("failed to allocate temporary output")
)
