package ports

import (
	"context"

	"go.trai.ch/buildfinder/internal/core/domain"
)

// RemoteCatalog abstracts a single remote build system (KOJI or PNC) behind
// the uniform batched query/response shape described in the core
// specification §4.3. Every method preserves list-in/list-out parity: the
// result slice has the same length and ordering as its input slice.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type RemoteCatalog interface {
	// System identifies which BuildSystem this catalog serves.
	System() domain.BuildSystem

	// ArchiveExtensions returns the set of archive-type extensions this
	// catalog knows about, used by ChecksumGate to build its default
	// whitelist when the configured list is empty.
	ArchiveExtensions(ctx context.Context) ([]string, error)

	// ListArchivesByChecksum looks up archives by content checksum, one
	// sublist per input value; an empty sublist means no match.
	ListArchivesByChecksum(ctx context.Context, checksumType domain.ChecksumType, values []string) ([][]domain.RemoteArchive, error)

	// GetBuilds fetches build metadata, parallel to ids. A nil entry means
	// the catalog had no record for that id (§7's "should never happen"
	// soft-miss case).
	GetBuilds(ctx context.Context, ids []int64) ([]*domain.BuildInfo, error)

	// ListTags fetches the tag list of each build, parallel to ids.
	ListTags(ctx context.Context, ids []int64) ([][]string, error)

	// ListArchivesByBuild fetches every archive attached to each build.
	ListArchivesByBuild(ctx context.Context, ids []int64) ([][]domain.RemoteArchive, error)

	// GetTaskInfo fetches the KOJI task metadata for each id. withRequests
	// additionally populates TaskInfo.Request.
	GetTaskInfo(ctx context.Context, ids []int64, withRequests bool) ([]*domain.TaskInfo, error)

	// ListRpms resolves RPM NVRA references to their catalog RpmInfo,
	// parallel to refs. A build's full RPM list (RemoteRpms) is fetched
	// through ListRpmsByBuild instead.
	ListRpms(ctx context.Context, refs []domain.NVRA) ([]*domain.RpmInfo, error)

	// ListRpmsByBuild fetches every RPM attached to each build.
	ListRpmsByBuild(ctx context.Context, ids []int64) ([][]domain.RpmInfo, error)

	// EnrichArchiveTypeInfo annotates archives in place with type
	// classification (scm-source/project-source/patches/etc.).
	EnrichArchiveTypeInfo(ctx context.Context, archives []*domain.RemoteArchive) error
}

// PncCatalog extends RemoteCatalog with the PNC-only operations named in
// §4.3. A RemoteCatalog with System() == domain.SystemPNC always also
// implements PncCatalog; the Resolver receives its PNC catalog already
// typed as a PncCatalog.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type PncCatalog interface {
	RemoteCatalog

	// GetArtifactsByMd5 looks up PncArtifacts by md5 checksum, one sublist
	// per input value.
	GetArtifactsByMd5(ctx context.Context, values []string) ([][]domain.PncArtifact, error)

	// GetBuildRecordsByID fetches PNC build-record metadata by id.
	GetBuildRecordsByID(ctx context.Context, ids []int64) ([]domain.PncBuildRecord, error)

	// GetBuildConfigurationsByID fetches the build configuration each
	// build record was built from.
	GetBuildConfigurationsByID(ctx context.Context, ids []int64) ([]domain.PncBuildConfiguration, error)

	// GetProductVersionsByID fetches the product version associated with
	// each build configuration.
	GetProductVersionsByID(ctx context.Context, ids []int64) ([]domain.PncProductVersion, error)

	// GetBuildRecordPushResultsByID fetches Brew push results for each
	// build record, when the build was pushed to KOJI/Brew.
	GetBuildRecordPushResultsByID(ctx context.Context, ids []int64) ([]domain.PncPushResult, error)

	// GetBuiltArtifactsByID fetches the full artifact list produced by
	// each build record.
	GetBuiltArtifactsByID(ctx context.Context, ids []int64) ([][]domain.PncArtifact, error)
}
