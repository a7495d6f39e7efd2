package ports

import "go.trai.ch/buildfinder/internal/core/domain"

// ResultWriter persists the final output map to disk, independent of the
// in-memory cache files, per the SUPPLEMENTED FEATURES "builds.json /
// checksums-<type>.json output contract".
//
//go:generate go run go.uber.org/mock/mockgen -source=result.go -destination=mocks/mock_result.go -package=mocks
type ResultWriter interface {
	// WriteBuilds serializes the output map to builds.json under dir.
	WriteBuilds(dir string, builds map[domain.BuildSystemKey]*domain.Build) error
	// WriteChecksumIndex serializes a single checksum-type index (hex
	// digest -> filenames) to checksums-<type>.json under dir.
	WriteChecksumIndex(dir string, checksumType domain.ChecksumType, index map[string][]string) error
	// ReadBuilds reloads a previously written builds.json, for round-trip
	// verification and resume support.
	ReadBuilds(dir string) (map[domain.BuildSystemKey]*domain.Build, error)
}
