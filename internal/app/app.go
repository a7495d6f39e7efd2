// Package app implements the application layer for buildfinder: it wires
// the pre-computed checksum manifest an external distribution analyzer
// would have produced into the Resolver's queue, drives Resolver.Run to
// completion, and persists the result.
package app

import (
	"context"
	"encoding/json"
	"os"

	"go.trai.ch/buildfinder/internal/adapters/analyzer" //nolint:depguard // wired in app layer
	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/buildfinder/internal/core/ports"
	"go.trai.ch/buildfinder/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// ErrManifestReadFailed is returned when the checksum manifest file cannot
// be read or parsed.
var ErrManifestReadFailed = zerr.New("failed to read checksum manifest")

// manifestEntry is one line of the checksum manifest an external analyzer
// produces: either a resolvable checksum or a filename it failed to hash.
type manifestEntry struct {
	Type            domain.ChecksumType `json:"type,omitempty"`
	Value           string              `json:"value,omitempty"`
	Filename        string              `json:"filename"`
	ErroredFilename string              `json:"erroredFilename,omitempty"`
}

// App represents the main application logic.
type App struct {
	config       domain.BuildConfig
	resolver     *resolver.Resolver
	queue        *analyzer.Queue
	resultWriter ports.ResultWriter
	logger       ports.Logger
}

// New creates a new App instance.
func New(config domain.BuildConfig, r *resolver.Resolver, queue *analyzer.Queue, resultWriter ports.ResultWriter, logger ports.Logger) *App {
	return &App{
		config:       config,
		resolver:     r,
		queue:        queue,
		resultWriter: resultWriter,
		logger:       logger,
	}
}

// Run loads manifestPath (a JSON array of manifestEntry records standing in
// for the analyzer's live queue feed), publishes it to the Resolver's
// queue, drives resolution to completion, and writes builds.json plus one
// checksums-<type>.json per configured checksum type.
func (a *App) Run(ctx context.Context, manifestPath string) (resolver.Result, error) {
	entries, err := loadManifest(manifestPath)
	if err != nil {
		return resolver.Result{}, err
	}

	go a.publish(entries)

	result, err := a.resolver.Run(ctx)
	if err != nil {
		return resolver.Result{}, zerr.Wrap(err, "resolution failed")
	}

	if err := a.writeResults(result); err != nil {
		return resolver.Result{}, err
	}

	return result, nil
}

// publish feeds entries onto the analyzer queue in order, closing it once
// exhausted so the Resolver's drain loop sees the sentinel.
func (a *App) publish(entries []manifestEntry) {
	for _, e := range entries {
		if e.ErroredFilename != "" {
			a.queue.PushError(e.ErroredFilename)
			continue
		}
		a.queue.PushChecksum(domain.Checksum{Type: e.Type, Value: e.Value, Filename: e.Filename})
	}
	a.queue.Close()
}

func loadManifest(path string) ([]manifestEntry, error) {
	//nolint:gosec // path comes from a CLI flag, not untrusted network input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(ErrManifestReadFailed, "read manifest file"), "path", path)
	}
	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, zerr.With(zerr.Wrap(ErrManifestReadFailed, "parse manifest file"), "path", path)
	}
	return entries, nil
}

func (a *App) writeResults(result resolver.Result) error {
	byKey := make(map[domain.BuildSystemKey]*domain.Build, len(result.All))
	for _, b := range result.All {
		byKey[b.Key] = b
	}
	if err := a.resultWriter.WriteBuilds(a.config.OutputDir, byKey); err != nil {
		return err
	}
	for _, ct := range a.config.ChecksumTypes {
		index := result.FoundChecksums
		if ct != domain.MD5 {
			index = map[string][]string{}
		}
		if err := a.resultWriter.WriteChecksumIndex(a.config.OutputDir, ct, index); err != nil {
			return err
		}
	}
	a.logger.Info("resolution complete", "found", len(result.Found), "notFound", len(result.NotFoundFilenames()))
	return nil
}
