package config

// Smushfile represents the structure of the .smush.yaml configuration file.
type Smushfile struct {
	Version      string                `yaml:"version"`
	MinPercent   *int                  `yaml:"min_percent"`
	Recursive    *bool                 `yaml:"recursive"`
	StripMeta    *bool                 `yaml:"strip_meta"`
	IdentifyMIME *bool                 `yaml:"identify_mime"`
	Exclude      []string              `yaml:"exclude"`
	ToolPaths    []string              `yaml:"tool_paths"`
	Pipelines    map[string][][]string `yaml:"pipelines"`
}
