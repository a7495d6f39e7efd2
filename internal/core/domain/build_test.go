package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/buildfinder/internal/core/domain"
)

func TestArtifactQuality_Rank_Ordering(t *testing.T) {
	assert.Greater(t, domain.QualityTested.Rank(), domain.QualityVerified.Rank())
	assert.Greater(t, domain.QualityVerified.Rank(), domain.QualityNew.Rank())
	assert.Greater(t, domain.QualityNew.Rank(), domain.QualityUnknown.Rank())
	assert.Greater(t, domain.QualityUnknown.Rank(), domain.QualityDeprecated.Rank())
	assert.Greater(t, domain.QualityDeprecated.Rank(), domain.QualityTemporary.Rank())
	assert.Greater(t, domain.QualityTemporary.Rank(), domain.QualityBlacklisted.Rank())
	assert.Greater(t, domain.QualityBlacklisted.Rank(), domain.QualityDeleted.Rank())
}

func TestLocalArchive_SortKey(t *testing.T) {
	withArchive := domain.LocalArchive{Archive: &domain.RemoteArchive{Filename: "b.zip"}}
	assert.Equal(t, "b.zip", withArchive.SortKey())

	withRpm := domain.LocalArchive{Rpm: &domain.RpmInfo{Name: "foo", Version: "1.0", Release: "1"}}
	assert.Equal(t, "foo-1.0-1", withRpm.SortKey())

	assert.Equal(t, "", domain.LocalArchive{}.SortKey())
}

func TestLocalArchive_ID(t *testing.T) {
	withArchive := domain.LocalArchive{Archive: &domain.RemoteArchive{ArchiveID: 5}}
	assert.Equal(t, int64(5), withArchive.ID())

	withRpm := domain.LocalArchive{Rpm: &domain.RpmInfo{ID: 9}}
	assert.Equal(t, int64(9), withRpm.ID())

	assert.Equal(t, int64(0), domain.LocalArchive{}.ID())
}

func TestRpmInfo_NVR_NVRA(t *testing.T) {
	r := domain.RpmInfo{Name: "foo", Version: "1.0", Release: "1", Arch: "x86_64"}
	assert.Equal(t, "foo-1.0-1", r.NVR())
	assert.Equal(t, "foo-1.0-1.x86_64", r.NVRA())
}

func TestNewSyntheticBuild(t *testing.T) {
	b := domain.NewSyntheticBuild()
	assert.Equal(t, domain.NotFoundKey, b.Key)
	assert.Equal(t, int64(0), b.Info.ID)
	assert.Empty(t, b.Archives)
}
