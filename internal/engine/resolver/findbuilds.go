package resolver

import (
	"context"

	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// findBuilds implements §4.6's findBuilds(multimap) algorithm against KOJI.
// multimap maps an md5 Checksum to the filenames it was reported under.
func (r *Resolver) findBuilds(ctx context.Context, multimap map[domain.Checksum][]string) error {
	if len(multimap) == 0 {
		return nil
	}

	ctx, span := r.tracer.Start(ctx, "resolver.find_builds")
	defer span.End()

	gate, err := r.ensureGate(ctx)
	if err != nil {
		return err
	}

	var archiveChecksums, rpmChecksums []domain.Checksum
	for c, filenames := range multimap {
		if !gate.Accept(c, filenames, r.logger.Warn) {
			continue
		}
		if gate.IsRPM(filenames) {
			rpmChecksums = append(rpmChecksums, c)
		} else {
			archiveChecksums = append(archiveChecksums, c)
		}
	}

	if err := r.findArchiveBuilds(ctx, archiveChecksums, multimap); err != nil {
		return err
	}
	if err := r.findRpmBuilds(ctx, rpmChecksums, multimap); err != nil {
		return err
	}
	return nil
}

// findArchiveBuilds is §4.6.b-g,i restricted to archive (non-RPM) entries.
func (r *Resolver) findArchiveBuilds(ctx context.Context, checksums []domain.Checksum, multimap map[domain.Checksum][]string) error {
	if len(checksums) == 0 {
		return nil
	}

	archivesByChecksum := make(map[domain.Checksum][]domain.RemoteArchive, len(checksums))
	var needRemote []domain.Checksum

	if r.config.DisableCache {
		needRemote = checksums
	} else {
		for _, c := range checksums {
			if cached, ok := r.cache.GetArchivesByChecksum(domain.MD5, c.Value); ok {
				archivesByChecksum[c] = cached
			} else {
				needRemote = append(needRemote, c)
			}
		}
	}

	if len(needRemote) > 0 {
		fetched, err := r.fetchArchivesByChecksum(ctx, needRemote)
		if err != nil {
			return err
		}
		for i, c := range needRemote {
			archivesByChecksum[c] = fetched[i]
			if !r.config.DisableCache {
				r.cache.PutArchivesByChecksum(domain.MD5, c.Value, fetched[i])
			}
		}
	}

	// Step d: enrich archive-type info on the flattened remote-fetched set.
	var toEnrich []*domain.RemoteArchive
	for _, c := range needRemote {
		archives := archivesByChecksum[c]
		for i := range archives {
			toEnrich = append(toEnrich, &archives[i])
		}
		archivesByChecksum[c] = archives
	}
	if len(toEnrich) > 0 {
		if err := r.koji.EnrichArchiveTypeInfo(ctx, toEnrich); err != nil {
			return zerr.Wrap(err, "failed to enrich archive type info")
		}
	}

	// Step f: union build ids, fetch metadata for any not already cached
	// or present in the output map.
	buildIDs := collectBuildIDs(archivesByChecksum)
	needBuilds := r.buildsNeedingFetch(buildIDs)
	if len(needBuilds) > 0 {
		if err := r.fetchAndPromoteBuilds(ctx, needBuilds); err != nil {
			return err
		}
	}

	// Step g: enrich cached scm-source/project-source/patches sub-archives
	// on any build that still lacks type info.
	if err := r.enrichStaleSubArchives(ctx, buildIDs); err != nil {
		return err
	}

	// Step i: resolve each checksum against its candidate archives.
	for c, filenames := range multimap {
		archives, ok := archivesByChecksum[c]
		if !ok {
			continue // not an archive checksum in this call (RPM, or gate-dropped)
		}
		r.resolveArchiveChecksum(c, filenames, archives)
	}

	return nil
}

// fetchArchivesByChecksum chunks needRemote by multicallSize and issues each
// chunk as a bounded-parallel ListArchivesByChecksum call, collecting
// results in submission order (§5) so the write-through step below can zip
// them one-to-one with needRemote.
func (r *Resolver) fetchArchivesByChecksum(ctx context.Context, needRemote []domain.Checksum) ([][]domain.RemoteArchive, error) {
	chunkSize := r.config.KojiMulticallSize
	if chunkSize <= 0 {
		chunkSize = len(needRemote)
	}
	chunks := chunkChecksums(needRemote, chunkSize)

	results := make([][][]domain.RemoteArchive, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numThreadsOrDefault(r.config.KojiNumThreads))

	for i, chunk := range chunks {
		values := checksumValues(chunk)
		g.Go(func() error {
			res, err := r.koji.ListArchivesByChecksum(gctx, domain.MD5, values)
			if err != nil {
				return zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "listArchivesByChecksum failed"), "count", len(values))
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	flat := make([][]domain.RemoteArchive, 0, len(needRemote))
	for i, chunk := range chunks {
		res := results[i]
		for j, c := range chunk {
			archives := res[j]
			for _, a := range archives {
				if a.Checksum != "" && a.Checksum != c.Value {
					r.logger.Warn("returned checksum differs from queried checksum", "queried", c.Value, "returned", a.Checksum)
				}
			}
			flat = append(flat, archives)
		}
	}
	return flat, nil
}

// buildsNeedingFetch returns the subset of ids not already present in the
// output map or the build-by-id cache.
func (r *Resolver) buildsNeedingFetch(ids []int64) []int64 {
	var need []int64
	for _, id := range ids {
		if _, ok := r.output[domain.BuildSystemKey{System: domain.SystemKoji, ID: id}]; ok {
			continue
		}
		if !r.config.DisableCache {
			if cached, ok := r.cache.GetBuildByID(id); ok {
				r.output[domain.BuildSystemKey{System: domain.SystemKoji, ID: id}] = cached
				continue
			}
		}
		need = append(need, id)
	}
	return need
}

// fetchAndPromoteBuilds implements §4.6.f: getBuilds first (TaskID is
// needed to decide the getTaskInfo subset), then listTags,
// listArchivesByBuild and getTaskInfo in parallel.
func (r *Resolver) fetchAndPromoteBuilds(ctx context.Context, ids []int64) error {
	infos, err := r.koji.GetBuilds(ctx, ids)
	if err != nil {
		return zerr.Wrap(domain.ErrCatalogRequest, "getBuilds failed")
	}

	var tags [][]string
	var remoteArchives [][]domain.RemoteArchive
	var taskInfos []*domain.TaskInfo
	taskIDs, taskIndex := collectTaskIDs(ids, infos)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := r.koji.ListTags(gctx, ids)
		if err != nil {
			return zerr.Wrap(domain.ErrCatalogRequest, "listTags failed")
		}
		tags = res
		return nil
	})
	g.Go(func() error {
		res, err := r.koji.ListArchivesByBuild(gctx, ids)
		if err != nil {
			return zerr.Wrap(domain.ErrCatalogRequest, "listArchivesByBuild failed")
		}
		remoteArchives = res
		return nil
	})
	if len(taskIDs) > 0 {
		g.Go(func() error {
			res, err := r.koji.GetTaskInfo(gctx, taskIDs, true)
			if err != nil {
				return zerr.Wrap(domain.ErrCatalogRequest, "getTaskInfo failed")
			}
			taskInfos = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, id := range ids {
		info := infos[i]
		if info == nil {
			r.logger.Warn("soft miss: build lookup returned nil for known archive", "build_id", id)
			continue
		}
		build := &domain.Build{
			Info: *info,
			Tags: tags[i],
		}
		if i < len(remoteArchives) {
			build.RemoteArchives = remoteArchives[i]
		}
		if idx, ok := taskIndex[id]; ok && idx < len(taskInfos) {
			build.TaskInfo = taskInfos[idx]
		}
		key := domain.BuildSystemKey{System: domain.SystemKoji, ID: id}
		r.promoteBuild(key, build)
		if !r.config.DisableCache {
			r.cache.PutBuildByID(id, build, r.logger.Warn)
		}
	}
	return nil
}

// enrichStaleSubArchives implements §4.6.g.
func (r *Resolver) enrichStaleSubArchives(ctx context.Context, buildIDs []int64) error {
	var stale []*domain.RemoteArchive
	for _, id := range buildIDs {
		build, ok := r.output[domain.BuildSystemKey{System: domain.SystemKoji, ID: id}]
		if !ok {
			continue
		}
		for i := range build.RemoteArchives {
			a := &build.RemoteArchives[i]
			if !a.TypeInfoKnown && isSourceSubArchive(a.Extension) {
				stale = append(stale, a)
			}
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := r.koji.EnrichArchiveTypeInfo(ctx, stale); err != nil {
		return zerr.Wrap(err, "failed to enrich scm-source/project-source/patches archives")
	}
	return nil
}

func isSourceSubArchive(extension string) bool {
	switch extension {
	case "scm-source", "project-source", "patches":
		return true
	default:
		return false
	}
}

// resolveArchiveChecksum implements §4.6.i's per-checksum decision.
func (r *Resolver) resolveArchiveChecksum(c domain.Checksum, filenames []string, archives []domain.RemoteArchive) {
	switch len(archives) {
	case 0:
		r.recordNotFound(c, filenames)
	case 1:
		build := r.attachedBuildFor(archives[0])
		if build == nil {
			r.logger.Warn("soft miss: no promoted build for matched archive", "build_id", archives[0].BuildID)
			r.recordNotFound(c, filenames)
			return
		}
		addArchiveToBuild(build, archives[0], filenames, r.fileChecksums)
		r.recordFound(c, filenames)
	default:
		candidates := r.buildCandidates(archives)
		if len(candidates) == 0 {
			r.logger.Warn("soft miss: no promoted build among candidates", "checksum", c.Value)
			r.recordNotFound(c, filenames)
			return
		}
		winner := SelectBuild(candidates, func(id int64) (*domain.Build, bool) {
			return r.getOrCreateBuild(domain.BuildSystemKey{System: domain.SystemKoji, ID: id})
		}, r.logger.Warn)
		winningArchive := archiveForBuild(archives, winner.Info.ID)
		addArchiveToBuild(winner, winningArchive, filenames, r.fileChecksums)
		r.recordFound(c, filenames)
	}
}

func (r *Resolver) attachedBuildFor(archive domain.RemoteArchive) *domain.Build {
	build, ok := r.output[domain.BuildSystemKey{System: domain.SystemKoji, ID: archive.BuildID}]
	if !ok {
		return nil
	}
	return build
}

func (r *Resolver) buildCandidates(archives []domain.RemoteArchive) []candidate {
	seen := make(map[int64]struct{}, len(archives))
	var out []candidate
	for _, a := range archives {
		if _, dup := seen[a.BuildID]; dup {
			continue
		}
		seen[a.BuildID] = struct{}{}
		build := r.attachedBuildFor(a)
		if build == nil {
			continue
		}
		out = append(out, candidate{build: build, archive: a})
	}
	return out
}

func archiveForBuild(archives []domain.RemoteArchive, buildID int64) domain.RemoteArchive {
	for _, a := range archives {
		if a.BuildID == buildID {
			return a
		}
	}
	return archives[0]
}

func collectBuildIDs(archivesByChecksum map[domain.Checksum][]domain.RemoteArchive) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, archives := range archivesByChecksum {
		for _, a := range archives {
			if _, ok := seen[a.BuildID]; ok {
				continue
			}
			seen[a.BuildID] = struct{}{}
			ids = append(ids, a.BuildID)
		}
	}
	return ids
}

func collectTaskIDs(ids []int64, infos []*domain.BuildInfo) ([]int64, map[int64]int) {
	var taskIDs []int64
	index := make(map[int64]int)
	for i, id := range ids {
		if i >= len(infos) || infos[i] == nil || infos[i].TaskID == nil {
			continue
		}
		index[id] = len(taskIDs)
		taskIDs = append(taskIDs, *infos[i].TaskID)
	}
	return taskIDs, index
}

func chunkChecksums(checksums []domain.Checksum, size int) [][]domain.Checksum {
	if size <= 0 {
		size = len(checksums)
	}
	if size == 0 {
		return nil
	}
	var chunks [][]domain.Checksum
	for i := 0; i < len(checksums); i += size {
		end := i + size
		if end > len(checksums) {
			end = len(checksums)
		}
		chunks = append(chunks, checksums[i:end])
	}
	return chunks
}

func checksumValues(checksums []domain.Checksum) []string {
	values := make([]string, len(checksums))
	for i, c := range checksums {
		values[i] = c.Value
	}
	return values
}

func numThreadsOrDefault(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
