// Package ports defines the seams the Build Resolution Engine core is wired
// against, so that adapters (remote catalogs, caches, config, logging) can be
// swapped or faked without touching engine code.
package ports

import "io"

// Logger defines the interface for structured application logging.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(err error, args ...any)
	SetOutput(w io.Writer)
	SetJSON(json bool)
}
