// Package config provides the configuration loader for smush.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/smush/internal/core/domain"
	"go.trai.ch/smush/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load walks up from cwd looking for .smush.yaml.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	path, ok := findConfiguration(cwd)
	if !ok {
		return &domain.Config{}, nil
	}
	return l.LoadFile(path)
}

// LoadFile reads and validates the configuration at path.
func (l *Loader) LoadFile(path string) (*domain.Config, error) {
	var file Smushfile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return nil, err
	}

	if file.Version != "" && file.Version != domain.SupportedConfigVersion {
		err := zerr.With(zerr.Wrap(domain.ErrUnsupportedVersion, "cannot load config"), "version", file.Version)
		return nil, zerr.With(err, "path", path)
	}

	if file.MinPercent != nil && *file.MinPercent < 0 {
		err := zerr.With(zerr.Wrap(domain.ErrInvalidUsage, "min_percent must not be negative"), "min_percent", *file.MinPercent)
		return nil, zerr.With(err, "path", path)
	}

	pipelines, err := buildPipelines(file.Pipelines)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	return &domain.Config{
		Path:         path,
		MinPercent:   file.MinPercent,
		Recursive:    file.Recursive,
		StripMeta:    file.StripMeta,
		IdentifyMIME: file.IdentifyMIME,
		Exclude:      slices.Clone(file.Exclude),
		ToolPaths:    resolveToolPaths(filepath.Dir(path), file.ToolPaths),
		Pipelines:    pipelines,
	}, nil
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func buildPipelines(raw map[string][][]string) (map[domain.Format]domain.PipelineSpec, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	pipelines := make(map[domain.Format]domain.PipelineSpec, len(raw))
	for _, key := range keys {
		format, ok := domain.LookupFormat(key)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnknownFormat, "invalid pipelines section"), "format", key)
		}

		steps := make([]domain.StepTemplate, 0, len(raw[key]))
		for _, argv := range raw[key] {
			steps = append(steps, domain.StepTemplate(argv))
		}

		spec, err := domain.NewPipelineSpec(steps...)
		if err != nil {
			return nil, zerr.With(err, "format", key)
		}
		pipelines[format] = spec
	}
	return pipelines, nil
}

// resolveToolPaths makes relative tool directories relative to the config file.
func resolveToolPaths(base string, dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}
		out = append(out, dir)
	}
	return out
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered or given by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "cannot load config"), "path", configPath)
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigParseFailed, parseErr), "cannot load config"), "path", configPath)
	}

	return nil
}
