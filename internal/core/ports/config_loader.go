package ports

import "go.trai.ch/smush/internal/core/domain"

// ConfigLoader defines the interface for loading the optional project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the configuration by walking up from cwd.
	// A missing file is not an error and yields an empty Config.
	Load(cwd string) (*domain.Config, error)

	// LoadFile reads the configuration from an explicit path.
	LoadFile(path string) (*domain.Config, error)
}
