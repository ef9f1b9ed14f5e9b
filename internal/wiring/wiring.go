// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/smush/internal/adapters/config"
	_ "go.trai.ch/smush/internal/adapters/fs"
	_ "go.trai.ch/smush/internal/adapters/identify"
	_ "go.trai.ch/smush/internal/adapters/logger"
	_ "go.trai.ch/smush/internal/adapters/shell"
	// Register app nodes.
	_ "go.trai.ch/smush/internal/app"
)
