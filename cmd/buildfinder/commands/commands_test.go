package commands_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/buildfinder/cmd/buildfinder/commands"
	"go.trai.ch/buildfinder/internal/adapters/analyzer"
	"go.trai.ch/buildfinder/internal/adapters/jsonio"
	"go.trai.ch/buildfinder/internal/adapters/logger"
	"go.trai.ch/buildfinder/internal/adapters/telemetry"
	"go.trai.ch/buildfinder/internal/app"
	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/buildfinder/internal/engine/resolver"
)

// fakeCatalog is a minimal ports.RemoteCatalog covering only the calls a
// single-archive KOJI resolution exercises.
type fakeCatalog struct {
	archivesByChecksum map[string][]domain.RemoteArchive
	builds             map[int64]*domain.BuildInfo
}

func (f *fakeCatalog) System() domain.BuildSystem { return domain.SystemKoji }

func (f *fakeCatalog) ArchiveExtensions(context.Context) ([]string, error) {
	return []string{"zip"}, nil
}

func (f *fakeCatalog) ListArchivesByChecksum(_ context.Context, _ domain.ChecksumType, values []string) ([][]domain.RemoteArchive, error) {
	out := make([][]domain.RemoteArchive, len(values))
	for i, v := range values {
		out[i] = f.archivesByChecksum[v]
	}
	return out, nil
}

func (f *fakeCatalog) GetBuilds(_ context.Context, ids []int64) ([]*domain.BuildInfo, error) {
	out := make([]*domain.BuildInfo, len(ids))
	for i, id := range ids {
		out[i] = f.builds[id]
	}
	return out, nil
}

func (f *fakeCatalog) ListTags(_ context.Context, ids []int64) ([][]string, error) {
	return make([][]string, len(ids)), nil
}

func (f *fakeCatalog) ListArchivesByBuild(_ context.Context, ids []int64) ([][]domain.RemoteArchive, error) {
	return make([][]domain.RemoteArchive, len(ids)), nil
}

func (f *fakeCatalog) GetTaskInfo(_ context.Context, ids []int64, _ bool) ([]*domain.TaskInfo, error) {
	return make([]*domain.TaskInfo, len(ids)), nil
}

func (f *fakeCatalog) ListRpms(_ context.Context, refs []domain.NVRA) ([]*domain.RpmInfo, error) {
	return make([]*domain.RpmInfo, len(refs)), nil
}

func (f *fakeCatalog) ListRpmsByBuild(_ context.Context, ids []int64) ([][]domain.RpmInfo, error) {
	return make([][]domain.RpmInfo, len(ids)), nil
}

func (f *fakeCatalog) EnrichArchiveTypeInfo(_ context.Context, archives []*domain.RemoteArchive) error {
	for _, a := range archives {
		a.TypeInfoKnown = true
	}
	return nil
}

func newTestCLI(t *testing.T, dir string) *commands.CLI {
	t.Helper()
	config := domain.BuildConfig{
		OutputDir:         dir,
		ChecksumTypes:     []domain.ChecksumType{domain.MD5},
		BuildSystems:      []domain.BuildSystem{domain.SystemKoji},
		KojiNumThreads:    2,
		KojiMulticallSize: 10,
		DisableCache:      true,
	}
	koji := &fakeCatalog{
		archivesByChecksum: map[string][]domain.RemoteArchive{
			"abc123": {{ArchiveID: 1, BuildID: 42, Filename: "foo.zip", Checksum: "abc123", Extension: "zip"}},
		},
		builds: map[int64]*domain.BuildInfo{
			42: {ID: 42, Name: "foo", Version: "1.0", Release: "1", State: domain.StateComplete},
		},
	}
	queue := analyzer.New(8)
	r := resolver.New(config, koji, nil, nil, queue, logger.New(), telemetry.NewNoOpTracer())
	a := app.New(config, r, queue, jsonio.New(), logger.New())
	return commands.New(a)
}

func TestCLI_Resolve_PrintsSummary(t *testing.T) {
	dir := t.TempDir()
	manifest := []map[string]any{{"type": "md5", "value": "abc123", "filename": "foo.zip"}}
	data, err := json.Marshal(manifest)
	require.NoError(t, err)
	manifestPath := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(manifestPath, data, 0o644))

	cli := newTestCLI(t, dir)
	cli.SetArgs([]string{"resolve", manifestPath})

	err = cli.Execute(t.Context())
	require.NoError(t, err)
}

func TestCLI_Resolve_RequiresExactlyOneArg(t *testing.T) {
	cli := newTestCLI(t, t.TempDir())
	cli.SetArgs([]string{"resolve"})

	err := cli.Execute(t.Context())
	assert.Error(t, err)
}

func TestCLI_Resolve_PropagatesManifestReadError(t *testing.T) {
	dir := t.TempDir()
	cli := newTestCLI(t, dir)
	cli.SetArgs([]string{"resolve", filepath.Join(dir, "missing.json")})

	err := cli.Execute(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrManifestReadFailed)
}

func TestCLI_Version_PrintsVersionString(t *testing.T) {
	cli := newTestCLI(t, t.TempDir())
	cli.SetArgs([]string{"version"})

	err := cli.Execute(t.Context())
	require.NoError(t, err)
}
