// Package jsonio persists the resolver's final output map to disk,
// independent of the in-memory cache files, per the original's
// BuildFinder.outputToFile.
package jsonio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/zerr"
)

// Writer implements ports.ResultWriter over plain JSON files.
type Writer struct{}

// New constructs a Writer.
func New() *Writer {
	return &Writer{}
}

// WriteBuilds serializes the output map to builds.json under dir, keyed by
// numeric build id (string), per §6.
func (w *Writer) WriteBuilds(dir string, builds map[domain.BuildSystemKey]*domain.Build) error {
	byID := make(map[string]*domain.Build, len(builds))
	for key, build := range builds {
		byID[strconv.FormatInt(key.ID, 10)] = build
	}

	data, err := json.MarshalIndent(byID, "", "  ")
	if err != nil {
		return zerr.Wrap(domain.ErrResultWriteFailed, "failed to marshal builds")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(domain.ErrResultWriteFailed, "failed to create output directory")
	}

	path := filepath.Join(dir, "builds.json")
	//nolint:gosec // path is derived from configured output directory, not user input
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrResultWriteFailed, "failed to write builds.json"), "path", path)
	}
	return nil
}

// WriteChecksumIndex serializes a single checksum-type index (hex digest ->
// filenames) to checksums-<type>.json under dir, per §6.
func (w *Writer) WriteChecksumIndex(dir string, checksumType domain.ChecksumType, index map[string][]string) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return zerr.Wrap(domain.ErrResultWriteFailed, "failed to marshal checksum index")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(domain.ErrResultWriteFailed, "failed to create output directory")
	}

	path := filepath.Join(dir, "checksums-"+string(checksumType)+".json")
	//nolint:gosec // path is derived from configured output directory, not user input
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrResultWriteFailed, "failed to write checksum index"), "path", path)
	}
	return nil
}

// ReadBuilds reloads a previously written builds.json.
func (w *Writer) ReadBuilds(dir string) (map[domain.BuildSystemKey]*domain.Build, error) {
	path := filepath.Join(dir, "builds.json")
	//nolint:gosec // path is derived from configured output directory, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrResultReadFailed, "failed to read builds.json"), "path", path)
	}

	var byID map[string]*domain.Build
	if err := json.Unmarshal(data, &byID); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrResultReadFailed, "failed to parse builds.json"), "path", path)
	}

	result := make(map[domain.BuildSystemKey]*domain.Build, len(byID))
	for _, build := range byID {
		result[build.Key] = build
	}
	return result, nil
}
