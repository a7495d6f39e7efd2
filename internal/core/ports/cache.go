package ports

import "go.trai.ch/buildfinder/internal/core/domain"

// Cache is the typed facade over the five persistent maps CacheLayer
// exposes per §4.2: archives-by-checksum[type], rpm-build-by-checksum[type],
// build-by-id, pnc-artifacts-by-checksum[type], pnc-build-by-id. All maps
// are read-through and write-through; storing an empty list is a valid
// negative cache entry.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type Cache interface {
	// GetArchivesByChecksum returns (archives, true) on a cache hit,
	// including a hit on a previously stored empty (negative) result.
	GetArchivesByChecksum(checksumType domain.ChecksumType, value string) ([]domain.RemoteArchive, bool)
	// PutArchivesByChecksum writes through the archive lookup cache;
	// archives may be empty (negative cache entry).
	PutArchivesByChecksum(checksumType domain.ChecksumType, value string, archives []domain.RemoteArchive)

	// GetRpmBuildByChecksum returns the RpmInfo previously matched to an
	// RPM payload checksum.
	GetRpmBuildByChecksum(checksumType domain.ChecksumType, value string) (*domain.RpmInfo, bool)
	// PutRpmBuildByChecksum writes through the RPM lookup cache.
	PutRpmBuildByChecksum(checksumType domain.ChecksumType, value string, rpm *domain.RpmInfo)

	// GetBuildByID returns a previously cached Build's canonical metadata.
	GetBuildByID(id int64) (*domain.Build, bool)
	// PutBuildByID writes through the build metadata cache. The first
	// caller for a given id wins; a later write with a different payload
	// for a non-RPM build is reported to logWarn instead of overwriting.
	PutBuildByID(id int64, build *domain.Build, logWarn func(msg string, args ...any))

	// GetPncArtifactsByChecksum returns the PncArtifact list matched to an
	// md5 checksum in a prior PNC lookup.
	GetPncArtifactsByChecksum(value string) ([]domain.PncArtifact, bool)
	// PutPncArtifactsByChecksum writes through the PNC artifact cache.
	PutPncArtifactsByChecksum(value string, artifacts []domain.PncArtifact)

	// GetPncBuildByID returns a previously cached PncBuild.
	GetPncBuildByID(id int64) (*domain.PncBuild, bool)
	// PutPncBuildByID writes through the PNC build cache.
	PutPncBuildByID(id int64, build *domain.PncBuild)

	// Close releases any underlying resources (database handles, etc.).
	Close() error
}
