package pnc_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/buildfinder/internal/adapters/catalog/pnc"
	"go.trai.ch/buildfinder/internal/core/domain"
)

// newRestServer replays the canned JSON body registered for each request
// path, ignoring query parameters; an unregistered path gets a 404.
func newRestServer(t *testing.T, byPath map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := byPath[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}))
}

func TestCatalog_GetArtifactsByMd5(t *testing.T) {
	server := newRestServer(t, map[string]any{
		"/pnc-rest/v2/artifacts": []map[string]any{
			{"id": 1, "filename": "lib.jar", "artifactQuality": "TESTED", "buildRecordIds": []int64{7}},
		},
	})
	defer server.Close()

	c := pnc.New(server.URL)
	got, err := c.GetArtifactsByMd5(t.Context(), []string{"abc123"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0], 1)
	assert.Equal(t, int64(1), got[0][0].ID)
	assert.Equal(t, "lib.jar", got[0][0].Filename)
	assert.Equal(t, domain.ArtifactQuality("TESTED"), got[0][0].Quality)
	assert.Equal(t, []int64{7}, got[0][0].BuildRecordIDs)
}

func TestCatalog_GetBuildRecordsByID_MissingIDYieldsZeroValue(t *testing.T) {
	server := newRestServer(t, map[string]any{
		"/pnc-rest/v2/builds": []map[string]any{
			{"id": 7, "status": "SUCCESS", "buildConfigurationId": 3, "scmRevision": "deadbeef"},
		},
	})
	defer server.Close()

	c := pnc.New(server.URL)
	got, err := c.GetBuildRecordsByID(t.Context(), []int64{7, 8})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, domain.StateComplete, got[0].State())
	assert.Equal(t, int64(0), got[1].ID)
}

func TestCatalog_GetBuilds_ChainsConfigurationAndProductVersion(t *testing.T) {
	server := newRestServer(t, map[string]any{
		"/pnc-rest/v2/builds": []map[string]any{
			{"id": 7, "status": "SUCCESS", "buildConfigurationId": 3, "scmRevision": "deadbeef"},
		},
		"/pnc-rest/v2/build-configurations": []map[string]any{
			{"id": 3, "name": "my-project", "productVersionId": 9},
		},
		"/pnc-rest/v2/product-versions": []map[string]any{
			{"id": 9, "version": "1.0"},
		},
	})
	defer server.Close()

	c := pnc.New(server.URL)
	infos, err := c.GetBuilds(t.Context(), []int64{7})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.NotNil(t, infos[0])
	assert.Equal(t, "my-project", infos[0].Name)
	assert.Equal(t, "1.0", infos[0].Version)
	assert.Equal(t, domain.StateComplete, infos[0].State)
}

func TestCatalog_GetBuilds_NoMatchingRecordIsSoftMiss(t *testing.T) {
	server := newRestServer(t, map[string]any{
		"/pnc-rest/v2/builds":               []map[string]any{},
		"/pnc-rest/v2/build-configurations": []map[string]any{},
		"/pnc-rest/v2/product-versions":     []map[string]any{},
	})
	defer server.Close()

	c := pnc.New(server.URL)
	infos, err := c.GetBuilds(t.Context(), []int64{404})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Nil(t, infos[0])
}

func TestCatalog_ListTags_AlwaysEmpty(t *testing.T) {
	c := pnc.New("http://unused.invalid")
	tags, err := c.ListTags(t.Context(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, [][]string{nil, nil}, tags)
}

func TestCatalog_GetTaskInfo_AlwaysNil(t *testing.T) {
	c := pnc.New("http://unused.invalid")
	infos, err := c.GetTaskInfo(t.Context(), []int64{1}, false)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Nil(t, infos[0])
}

func TestCatalog_ListRpms_AlwaysNil(t *testing.T) {
	c := pnc.New("http://unused.invalid")
	rpms, err := c.ListRpms(t.Context(), []domain.NVRA{{Name: "foo"}})
	require.NoError(t, err)
	require.Len(t, rpms, 1)
	assert.Nil(t, rpms[0])
}

func TestCatalog_ArchiveExtensions_FixedSet(t *testing.T) {
	c := pnc.New("http://unused.invalid")
	extensions, err := c.ArchiveExtensions(t.Context())
	require.NoError(t, err)
	assert.Contains(t, extensions, "jar")
	assert.Contains(t, extensions, "pom")
}

func TestCatalog_ListArchivesByChecksum_NonMD5ReturnsEmpty(t *testing.T) {
	c := pnc.New("http://unused.invalid")
	got, err := c.ListArchivesByChecksum(t.Context(), domain.SHA256, []string{"abc"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0])
}

func TestCatalog_ListArchivesByChecksum_MD5AdaptsFirstBuildRecordID(t *testing.T) {
	server := newRestServer(t, map[string]any{
		"/pnc-rest/v2/artifacts": []map[string]any{
			{"id": 1, "filename": "lib.jar", "buildRecordIds": []int64{7, 8}},
		},
	})
	defer server.Close()

	c := pnc.New(server.URL)
	got, err := c.ListArchivesByChecksum(t.Context(), domain.MD5, []string{"abc123"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0], 1)
	assert.Equal(t, int64(7), got[0][0].BuildID)
	assert.True(t, got[0][0].TypeInfoKnown)
}
