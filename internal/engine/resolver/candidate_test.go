package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/buildfinder/internal/core/domain"
)

func buildWithID(id int64, state domain.BuildState, tags ...string) *domain.Build {
	return &domain.Build{
		Info: domain.BuildInfo{ID: id, State: state},
		Tags: tags,
	}
}

func TestSelectBuild_PreemptsAlreadyOutputCandidate(t *testing.T) {
	winner := buildWithID(5, domain.StateComplete)
	loser := buildWithID(7, domain.StateComplete)

	alreadyOutput := func(id int64) (*domain.Build, bool) {
		if id == winner.Info.ID {
			return winner, true
		}
		return nil, false
	}

	candidates := []candidate{
		{build: winner, archive: domain.RemoteArchive{ArchiveID: 1}},
		{build: loser, archive: domain.RemoteArchive{ArchiveID: 2}},
	}

	got := SelectBuild(candidates, alreadyOutput, func(string, ...any) {})
	assert.Same(t, winner, got)
	assert.Len(t, winner.DuplicateArchives, 1)
	assert.Equal(t, int64(2), winner.DuplicateArchives[0].ArchiveID)
}

func TestSelectBuild_PrefersTaggedNonImport(t *testing.T) {
	untaggedHigh := buildWithID(10, domain.StateComplete)
	taggedImport := buildWithID(8, domain.StateComplete, "rhel-9")
	taggedNonImport := buildWithID(6, domain.StateComplete, "rhel-9")

	candidates := []candidate{
		{build: untaggedHigh, archive: domain.RemoteArchive{ArchiveID: 1, IsImport: false}},
		{build: taggedImport, archive: domain.RemoteArchive{ArchiveID: 2, IsImport: true}},
		{build: taggedNonImport, archive: domain.RemoteArchive{ArchiveID: 3, IsImport: false}},
	}

	got := SelectBuild(candidates, noneOutput, func(string, ...any) {})
	assert.Same(t, taggedNonImport, got)
}

func TestSelectBuild_FallsBackToTaggedImportWhenNoNonImport(t *testing.T) {
	untagged := buildWithID(10, domain.StateComplete)
	taggedImportLow := buildWithID(4, domain.StateComplete, "rhel-9")
	taggedImportHigh := buildWithID(8, domain.StateComplete, "rhel-9")

	candidates := []candidate{
		{build: untagged, archive: domain.RemoteArchive{ArchiveID: 1, IsImport: false}},
		{build: taggedImportLow, archive: domain.RemoteArchive{ArchiveID: 2, IsImport: true}},
		{build: taggedImportHigh, archive: domain.RemoteArchive{ArchiveID: 3, IsImport: true}},
	}

	got := SelectBuild(candidates, noneOutput, func(string, ...any) {})
	assert.Same(t, taggedImportHigh, got)
}

func TestSelectBuild_HighestIDCompleteWhenNoneTagged(t *testing.T) {
	low := buildWithID(3, domain.StateComplete)
	high := buildWithID(9, domain.StateComplete)

	candidates := []candidate{
		{build: low, archive: domain.RemoteArchive{ArchiveID: 1}},
		{build: high, archive: domain.RemoteArchive{ArchiveID: 2}},
	}

	got := SelectBuild(candidates, noneOutput, func(string, ...any) {})
	assert.Same(t, high, got)
}

func TestSelectBuild_NoCompleteCandidateWarnsAndPicksHighest(t *testing.T) {
	building := buildWithID(3, domain.StateBuilding)
	failed := buildWithID(9, domain.StateFailed)

	var warned bool
	logWarn := func(msg string, args ...any) { warned = true }

	candidates := []candidate{
		{build: building, archive: domain.RemoteArchive{ArchiveID: 1}},
		{build: failed, archive: domain.RemoteArchive{ArchiveID: 2}},
	}

	got := SelectBuild(candidates, noneOutput, logWarn)
	assert.Same(t, failed, got)
	assert.True(t, warned)
}

func TestSelectBuild_Empty(t *testing.T) {
	assert.Nil(t, SelectBuild(nil, noneOutput, func(string, ...any) {}))
}

func TestSelectPncArtifact_PrefersHigherQuality(t *testing.T) {
	tested := domain.PncArtifact{ID: 1, Quality: domain.QualityTested}
	verified := domain.PncArtifact{ID: 2, Quality: domain.QualityVerified}

	got := SelectPncArtifact([]domain.PncArtifact{verified, tested})
	assert.Equal(t, tested, got)
}

func TestSelectPncArtifact_TieBreaksOnBuildRecordPresence(t *testing.T) {
	withoutRecord := domain.PncArtifact{ID: 1, Quality: domain.QualityNew}
	withRecord := domain.PncArtifact{ID: 2, Quality: domain.QualityNew, BuildRecordIDs: []int64{42}}

	got := SelectPncArtifact([]domain.PncArtifact{withoutRecord, withRecord})
	assert.Equal(t, withRecord, got)
}

func noneOutput(int64) (*domain.Build, bool) { return nil, false }
