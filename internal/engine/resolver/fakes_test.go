package resolver_test

import (
	"context"
	"io"
	"sync"

	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/buildfinder/internal/core/ports"
)

var (
	_ ports.PncCatalog  = (*fakeCatalog)(nil)
	_ ports.ChecksumQueue = (*fakeQueue)(nil)
	_ ports.Logger        = (*fakeLogger)(nil)
)

// fakeCatalog is a hand-rolled double for both ports.RemoteCatalog and
// ports.PncCatalog, keyed by the same lookup maps a real KOJI or PNC
// response would populate. Callers only need to fill in the maps a given
// scenario touches.
type fakeCatalog struct {
	system     domain.BuildSystem
	extensions []string

	archivesByChecksum map[string][]domain.RemoteArchive
	builds             map[int64]*domain.BuildInfo
	tags               map[int64][]string
	archivesByBuild    map[int64][]domain.RemoteArchive
	taskInfo           map[int64]*domain.TaskInfo
	rpmsByFilename     map[string]*domain.RpmInfo
	rpmsByBuild        map[int64][]domain.RpmInfo

	artifactsByMd5  map[string][]domain.PncArtifact
	buildRecords    map[int64]domain.PncBuildRecord
	buildConfigs    map[int64]domain.PncBuildConfiguration
	productVersions map[int64]domain.PncProductVersion
	pushResults     map[int64]domain.PncPushResult
	builtArtifacts  map[int64][]domain.PncArtifact
}

func (f *fakeCatalog) System() domain.BuildSystem { return f.system }

func (f *fakeCatalog) ArchiveExtensions(context.Context) ([]string, error) {
	return f.extensions, nil
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
	out := make([][]string, len(ids))
	for i, id := range ids {
		out[i] = f.tags[id]
	}
	return out, nil
}

func (f *fakeCatalog) ListArchivesByBuild(_ context.Context, ids []int64) ([][]domain.RemoteArchive, error) {
	out := make([][]domain.RemoteArchive, len(ids))
	for i, id := range ids {
		out[i] = f.archivesByBuild[id]
	}
	return out, nil
}

func (f *fakeCatalog) GetTaskInfo(_ context.Context, ids []int64, _ bool) ([]*domain.TaskInfo, error) {
	out := make([]*domain.TaskInfo, len(ids))
	for i, id := range ids {
		out[i] = f.taskInfo[id]
	}
	return out, nil
}

func (f *fakeCatalog) ListRpms(_ context.Context, refs []domain.NVRA) ([]*domain.RpmInfo, error) {
	out := make([]*domain.RpmInfo, len(refs))
	for i, ref := range refs {
		out[i] = f.rpmsByFilename[ref.Filename()]
	}
	return out, nil
}

func (f *fakeCatalog) ListRpmsByBuild(_ context.Context, ids []int64) ([][]domain.RpmInfo, error) {
	out := make([][]domain.RpmInfo, len(ids))
	for i, id := range ids {
		out[i] = f.rpmsByBuild[id]
	}
	return out, nil
}

func (f *fakeCatalog) EnrichArchiveTypeInfo(_ context.Context, archives []*domain.RemoteArchive) error {
	for _, a := range archives {
		a.TypeInfoKnown = true
	}
	return nil
}

func (f *fakeCatalog) GetArtifactsByMd5(_ context.Context, values []string) ([][]domain.PncArtifact, error) {
	out := make([][]domain.PncArtifact, len(values))
	for i, v := range values {
		out[i] = f.artifactsByMd5[v]
	}
	return out, nil
}

func (f *fakeCatalog) GetBuildRecordsByID(_ context.Context, ids []int64) ([]domain.PncBuildRecord, error) {
	out := make([]domain.PncBuildRecord, len(ids))
	for i, id := range ids {
		out[i] = f.buildRecords[id]
	}
	return out, nil
}

func (f *fakeCatalog) GetBuildConfigurationsByID(_ context.Context, ids []int64) ([]domain.PncBuildConfiguration, error) {
	out := make([]domain.PncBuildConfiguration, len(ids))
	for i, id := range ids {
		out[i] = f.buildConfigs[id]
	}
	return out, nil
}

func (f *fakeCatalog) GetProductVersionsByID(_ context.Context, ids []int64) ([]domain.PncProductVersion, error) {
	out := make([]domain.PncProductVersion, len(ids))
	for i, id := range ids {
		out[i] = f.productVersions[id]
	}
	return out, nil
}

func (f *fakeCatalog) GetBuildRecordPushResultsByID(_ context.Context, ids []int64) ([]domain.PncPushResult, error) {
	out := make([]domain.PncPushResult, len(ids))
	for i, id := range ids {
		out[i] = f.pushResults[id]
	}
	return out, nil
}

func (f *fakeCatalog) GetBuiltArtifactsByID(_ context.Context, ids []int64) ([][]domain.PncArtifact, error) {
	out := make([][]domain.PncArtifact, len(ids))
	for i, id := range ids {
		out[i] = f.builtArtifacts[id]
	}
	return out, nil
}

// fakeQueue replays a fixed sequence of batches, one per Take call.
type fakeQueue struct {
	mu      sync.Mutex
	batches [][]ports.QueueEntry
	next    int
}

func newFakeQueue(batches ...[]ports.QueueEntry) *fakeQueue {
	return &fakeQueue{batches: batches}
}

func (q *fakeQueue) Take() ([]ports.QueueEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.next >= len(q.batches) {
		return []ports.QueueEntry{{Sentinel: true}}, nil
	}
	b := q.batches[q.next]
	q.next++
	return b, nil
}

// fakeLogger records every call instead of writing anywhere, so assertions
// can check which warnings a scenario produced.
type fakeLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
	errs  []error
}

func (l *fakeLogger) Info(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *fakeLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *fakeLogger) Error(err error, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func (l *fakeLogger) SetOutput(_ io.Writer) {}

func (l *fakeLogger) SetJSON(bool) {}
