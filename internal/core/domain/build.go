package domain

// BuildState mirrors the remote catalog's lifecycle state for a build.
type BuildState string

const (
	StateBuilding BuildState = "BUILDING"
	StateComplete BuildState = "COMPLETE"
	StateDeleted  BuildState = "DELETED"
	StateFailed   BuildState = "FAILED"
	StateCanceled BuildState = "CANCELED"
	StateAll      BuildState = "ALL"
)

// BuildInfo is the canonical metadata a Build is never promoted into the
// output map without (invariant #2 of §3).
type BuildInfo struct {
	ID         int64
	PackageID  int64
	State      BuildState
	Name       string
	Version    string
	Release    string
	TaskID     *int64
	TypeNames  []string
}

// TaskInfo describes the KOJI task that produced a build, when present.
type TaskInfo struct {
	ID      int64
	Method  string
	State   string
	Request []string
}

// Build is the resolved record for one BuildSystemKey.
//
// Invariant: for every LocalArchive a in Archives, either
// a.Archive.BuildID == Info.ID or Info.ID == 0 (the synthetic bucket).
type Build struct {
	Key               BuildSystemKey
	Info              BuildInfo
	Tags              []string
	RemoteArchives    []RemoteArchive
	RemoteRpms        []RpmInfo
	TaskInfo          *TaskInfo
	Archives          []LocalArchive
	DuplicateArchives []RemoteArchive
}

// NewSyntheticBuild creates the id-0 "not found" bucket required by
// invariant #1 of §3: exactly one entry for (NONE, 0) at all times.
func NewSyntheticBuild() *Build {
	return &Build{
		Key: NotFoundKey,
		Info: BuildInfo{
			ID:      0,
			State:   StateAll,
			Name:    "not found",
			Version: "not found",
			Release: "not found",
		},
	}
}

// LocalArchive is one file (or RPM) contributed to a Build, with the set of
// local filenames it matched and the checksums the analyzer computed for it.
type LocalArchive struct {
	Archive             *RemoteArchive
	Rpm                 *RpmInfo
	Filenames           []string
	UnmatchedFilenames  []string
	Checksums           []Checksum
	BuiltFromSource     bool
}

// SortKey is the filename LocalArchives are ordered by within a Build
// (ascending), per §3.
func (a LocalArchive) SortKey() string {
	if a.Archive != nil {
		return a.Archive.Filename
	}
	if a.Rpm != nil {
		return a.Rpm.NVR()
	}
	return ""
}

// ID is the archive/rpm identifier a LocalArchive is keyed by when deciding
// whether to union filenames into an existing entry vs. create a new one.
func (a LocalArchive) ID() int64 {
	if a.Archive != nil {
		return a.Archive.ArchiveID
	}
	if a.Rpm != nil {
		return a.Rpm.ID
	}
	return 0
}

// RemoteArchive is the catalog-side view of an archive, as returned by
// RemoteCatalog.ListArchivesByChecksum/ListArchivesByBuild.
type RemoteArchive struct {
	ArchiveID     int64
	BuildID       int64
	Filename      string
	Checksum      string
	ChecksumType  ChecksumType
	Extension     string
	IsImport      bool
	TypeInfoKnown bool
}

// RpmInfo is the catalog-side view of an RPM, as returned by
// RemoteCatalog.ListRpms.
type RpmInfo struct {
	ID          int64
	BuildID     int64
	Name        string
	Version     string
	Release     string
	Arch        string
	Payloadhash string // md5
}

// NVR renders the name-version-release identity of the RPM.
func (r RpmInfo) NVR() string {
	return r.Name + "-" + r.Version + "-" + r.Release
}

// NVRA renders the full name-version-release-architecture identity.
func (r RpmInfo) NVRA() string {
	return r.NVR() + "." + r.Arch
}

// ArtifactQuality is PNC's artifact quality classification, used by the
// PNC CandidateSelector to rank candidates for the same checksum.
type ArtifactQuality string

const (
	QualityNew         ArtifactQuality = "NEW"
	QualityVerified    ArtifactQuality = "VERIFIED"
	QualityTested      ArtifactQuality = "TESTED"
	QualityDeprecated  ArtifactQuality = "DEPRECATED"
	QualityBlacklisted ArtifactQuality = "BLACKLISTED"
	QualityDeleted     ArtifactQuality = "DELETED"
	QualityTemporary   ArtifactQuality = "TEMPORARY"
	QualityUnknown     ArtifactQuality = ""
)

// qualityRank implements the ranking table in §4.4.
var qualityRank = map[ArtifactQuality]int{
	QualityTested:      3,
	QualityVerified:    2,
	QualityNew:         1,
	QualityUnknown:     0,
	QualityDeprecated:  -1,
	QualityTemporary:   -2,
	QualityBlacklisted: -3,
	QualityDeleted:     -4,
}

// Rank returns the quality's position in the PNC tie-break ordering.
func (q ArtifactQuality) Rank() int {
	return qualityRank[q]
}

// PncArtifact is PNC's catalog-side view of a content match.
type PncArtifact struct {
	ID             int64
	Filename       string
	Quality        ArtifactQuality
	BuildRecordIDs []int64
}
