package domain

// Config is the optional project configuration. Nil pointers mean "not set",
// so command line flags and built-in defaults can fill the gaps.
type Config struct {
	// Path is the file the configuration was read from; empty when none was found.
	Path         string
	MinPercent   *int
	Recursive    *bool
	StripMeta    *bool
	IdentifyMIME *bool
	Exclude      []string
	// ToolPaths are directories searched for external programs before PATH.
	ToolPaths []string
	// Pipelines replace the built-in step lists for the given formats.
	Pipelines map[Format]PipelineSpec
}

// Empty reports whether no configuration file was found.
func (c *Config) Empty() bool {
	return c == nil || c.Path == ""
}
