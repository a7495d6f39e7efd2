package domain

// PncBuildRecord is PNC's build-record metadata, the PNC analogue of
// BuildInfo. A build record's status maps onto BuildState via
// PncBuildRecord.State.
type PncBuildRecord struct {
	ID                    int64
	Status                string
	BuildConfigurationID  int64
	SCMRevision           string
	SCMURL                string
	Submitter             string
}

// State maps a PNC build-record status string onto the canonical BuildState
// vocabulary shared with KOJI builds.
func (r PncBuildRecord) State() BuildState {
	switch r.Status {
	case "SUCCESS", "SUCCESS_WITH_NEW_ARTIFACTS":
		return StateComplete
	case "REJECTED", "REJECTED_FAILED_DEPENDENCIES", "SYSTEM_ERROR", "DONE_WITH_ERRORS":
		return StateFailed
	case "CANCELLED":
		return StateCanceled
	case "BUILDING", "NEW", "WAITING_FOR_DEPENDENCIES", "ENQUEUED":
		return StateBuilding
	default:
		return StateFailed
	}
}

// PncBuildConfiguration is the build configuration a PncBuildRecord was
// produced from, carrying the project/artifact identity KOJI would instead
// derive from BuildInfo.Name/Version.
type PncBuildConfiguration struct {
	ID               int64
	Name             string
	ProductVersionID int64
}

// PncProductVersion is the product line a PncBuildConfiguration belongs to.
// Its Version becomes BuildInfo.Version of the adapted Build ("unknown" when
// empty); PncBuildConfiguration carries no version of its own.
type PncProductVersion struct {
	ID      int64
	Version string
}

// PncPushResult records that a PNC build record was pushed into Brew/KOJI
// under a given build id. The Resolver keeps it on PncBuild.PushResult; it
// is not used to match a PNC-origin artifact against a KOJI build, so the
// same content can appear under both a PNC and a KOJI entry.
type PncPushResult struct {
	BuildRecordID int64
	BrewBuildID   int64
	Status        string
}

// PncBuild is the PNC-side aggregate assembled by findBuildsPnc before it is
// adapted into the canonical Build shape for insertion into the output map.
type PncBuild struct {
	Record        PncBuildRecord
	Configuration PncBuildConfiguration
	ProductVer    PncProductVersion
	PushResult    *PncPushResult
	Artifacts     []PncArtifact
}

// ToBuild adapts a PncBuild into the canonical Build shape, per §4.6's
// "findBuildsPnc... mirrors... the resulting PncBuild is adapted to the
// canonical Build shape before insertion into the output map."
func (p PncBuild) ToBuild() *Build {
	version := p.ProductVer.Version
	if version == "" {
		version = "unknown"
	}
	return &Build{
		Key: BuildSystemKey{System: SystemPNC, ID: p.Record.ID},
		Info: BuildInfo{
			ID:      p.Record.ID,
			State:   p.Record.State(),
			Name:    p.Configuration.Name,
			Version: version,
			Release: p.Record.SCMRevision,
		},
	}
}
