package jsonio_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/buildfinder/internal/adapters/jsonio"
	"go.trai.ch/buildfinder/internal/core/domain"
)

func TestWriter_WriteBuilds_KeyedByNumericID(t *testing.T) {
	dir := t.TempDir()
	w := jsonio.New()

	key := domain.BuildSystemKey{System: domain.SystemKoji, ID: 42}
	builds := map[domain.BuildSystemKey]*domain.Build{
		key: {Key: key, Info: domain.BuildInfo{ID: 42, Name: "foo"}},
	}

	require.NoError(t, w.WriteBuilds(dir, builds))

	data, err := os.ReadFile(filepath.Join(dir, "builds.json"))
	require.NoError(t, err)

	var byID map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &byID))
	assert.Contains(t, byID, "42")
}

func TestWriter_WriteBuilds_ThenReadBuilds_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	w := jsonio.New()

	key := domain.BuildSystemKey{System: domain.SystemKoji, ID: 42}
	builds := map[domain.BuildSystemKey]*domain.Build{
		key: {Key: key, Info: domain.BuildInfo{ID: 42, Name: "foo", Version: "1.0"}},
	}

	require.NoError(t, w.WriteBuilds(dir, builds))

	got, err := w.ReadBuilds(dir)
	require.NoError(t, err)
	require.Contains(t, got, key)
	assert.Equal(t, "foo", got[key].Info.Name)
}

func TestWriter_WriteChecksumIndex(t *testing.T) {
	dir := t.TempDir()
	w := jsonio.New()

	index := map[string][]string{"abc123": {"foo.zip", "foo-copy.zip"}}
	require.NoError(t, w.WriteChecksumIndex(dir, domain.MD5, index))

	data, err := os.ReadFile(filepath.Join(dir, "checksums-md5.json"))
	require.NoError(t, err)

	var got map[string][]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, index, got)
}

func TestWriter_ReadBuilds_MissingFileErrors(t *testing.T) {
	w := jsonio.New()
	_, err := w.ReadBuilds(t.TempDir())
	assert.Error(t, err)
}
