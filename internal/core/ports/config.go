package ports

import "go.trai.ch/buildfinder/internal/core/domain"

// ConfigLoader loads the BuildConfig consumed by the core, per §6.
//
//go:generate go run go.uber.org/mock/mockgen -source=config.go -destination=mocks/mock_config.go -package=mocks
type ConfigLoader interface {
	// Load searches upward from cwd for the configuration file and
	// returns the parsed BuildConfig.
	Load(cwd string) (domain.BuildConfig, error)
}
