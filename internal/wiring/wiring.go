// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/buildfinder/internal/adapters/analyzer"
	_ "go.trai.ch/buildfinder/internal/adapters/cache"
	_ "go.trai.ch/buildfinder/internal/adapters/catalog/koji"
	_ "go.trai.ch/buildfinder/internal/adapters/catalog/pnc"
	_ "go.trai.ch/buildfinder/internal/adapters/config"
	_ "go.trai.ch/buildfinder/internal/adapters/jsonio"
	_ "go.trai.ch/buildfinder/internal/adapters/logger"
	_ "go.trai.ch/buildfinder/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/buildfinder/internal/app"
	_ "go.trai.ch/buildfinder/internal/engine/resolver"
)
