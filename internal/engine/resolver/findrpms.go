package resolver

import (
	"context"

	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/zerr"
)

// findRpmBuilds implements §4.6.h: parse NVRA, batch-fetch listRpms, then
// getBuilds/listTags/listRpms(buildIds)/getTaskInfo for the builds behind
// them, verifying the md5 payload hash before any output-map mutation.
func (r *Resolver) findRpmBuilds(ctx context.Context, checksums []domain.Checksum, multimap map[domain.Checksum][]string) error {
	if len(checksums) == 0 {
		return nil
	}

	rpmByChecksum := make(map[domain.Checksum]*domain.RpmInfo, len(checksums))
	var needRemote []domain.Checksum
	var refs []domain.NVRA

	for _, c := range checksums {
		if !r.config.DisableCache {
			if cached, ok := r.cache.GetRpmBuildByChecksum(domain.MD5, c.Value); ok {
				rpmByChecksum[c] = cached
				continue
			}
		}
		filenames := multimap[c]
		nvra, ok := parseFirstNVRA(filenames)
		if !ok {
			r.logger.Warn("could not parse NVRA from RPM filenames", "filenames", filenames)
			r.recordNotFound(c, filenames)
			continue
		}
		needRemote = append(needRemote, c)
		refs = append(refs, nvra)
	}

	if len(refs) > 0 {
		fetched, err := r.koji.ListRpms(ctx, refs)
		if err != nil {
			return zerr.Wrap(domain.ErrCatalogRequest, "listRpms failed")
		}
		for i, c := range needRemote {
			rpmByChecksum[c] = fetched[i]
			if !r.config.DisableCache {
				r.cache.PutRpmBuildByChecksum(domain.MD5, c.Value, fetched[i])
			}
		}
	}

	// Verify payload hashes before any mutation (§7: a mismatch must not
	// leave a partial mutation behind).
	for c, rpm := range rpmByChecksum {
		if rpm == nil {
			continue
		}
		if c.Type == domain.MD5 && rpm.Payloadhash != c.Value {
			return zerr.With(zerr.With(zerr.With(zerr.Wrap(domain.ErrDataInconsistency, "RPM payload hash does not match queried md5"),
				"queried_md5", c.Value), "payloadhash", rpm.Payloadhash), "nvra", rpm.NVRA())
		}
	}

	buildIDs := collectRpmBuildIDs(rpmByChecksum)
	needBuilds := r.buildsNeedingFetch(buildIDs)
	if len(needBuilds) > 0 {
		if err := r.fetchAndPromoteRpmBuilds(ctx, needBuilds); err != nil {
			return err
		}
	}

	for c, filenames := range multimap {
		rpm, ok := rpmByChecksum[c]
		if !ok {
			continue
		}
		if rpm == nil {
			r.recordNotFound(c, filenames)
			continue
		}
		build, ok := r.output[domain.BuildSystemKey{System: domain.SystemKoji, ID: rpm.BuildID}]
		if !ok {
			r.logger.Warn("soft miss: no promoted build for matched RPM", "build_id", rpm.BuildID)
			r.recordNotFound(c, filenames)
			continue
		}
		addRpmToBuild(build, *rpm, filenames, r.fileChecksums)
		r.recordFound(c, filenames)
	}

	return nil
}

// fetchAndPromoteRpmBuilds mirrors fetchAndPromoteBuilds but also populates
// RemoteRpms (the build's full RPM list), per §4.6.h.
func (r *Resolver) fetchAndPromoteRpmBuilds(ctx context.Context, ids []int64) error {
	infos, err := r.koji.GetBuilds(ctx, ids)
	if err != nil {
		return zerr.Wrap(domain.ErrCatalogRequest, "getBuilds failed")
	}
	tags, err := r.koji.ListTags(ctx, ids)
	if err != nil {
		return zerr.Wrap(domain.ErrCatalogRequest, "listTags failed")
	}
	rpms, err := r.koji.ListRpmsByBuild(ctx, ids)
	if err != nil {
		return zerr.Wrap(domain.ErrCatalogRequest, "listRpms(buildIds) failed")
	}

	taskIDs, taskIndex := collectTaskIDs(ids, infos)
	var taskInfos []*domain.TaskInfo
	if len(taskIDs) > 0 {
		taskInfos, err = r.koji.GetTaskInfo(ctx, taskIDs, true)
		if err != nil {
			return zerr.Wrap(domain.ErrCatalogRequest, "getTaskInfo failed")
		}
	}

	for i, id := range ids {
		info := infos[i]
		if info == nil {
			r.logger.Warn("soft miss: build lookup returned nil for known RPM", "build_id", id)
			continue
		}
		build := &domain.Build{
			Info:       *info,
			Tags:       tags[i],
			RemoteRpms: rpms[i],
		}
		if idx, ok := taskIndex[id]; ok && idx < len(taskInfos) {
			build.TaskInfo = taskInfos[idx]
		}
		key := domain.BuildSystemKey{System: domain.SystemKoji, ID: id}
		r.promoteBuild(key, build)
		if !r.config.DisableCache {
			// RPM-typed builds may legitimately re-cache (§4.2).
			r.cache.PutBuildByID(id, build, r.logger.Warn)
		}
	}
	return nil
}

func collectRpmBuildIDs(rpmByChecksum map[domain.Checksum]*domain.RpmInfo) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, rpm := range rpmByChecksum {
		if rpm == nil {
			continue
		}
		if _, ok := seen[rpm.BuildID]; ok {
			continue
		}
		seen[rpm.BuildID] = struct{}{}
		ids = append(ids, rpm.BuildID)
	}
	return ids
}

func parseFirstNVRA(filenames []string) (domain.NVRA, bool) {
	for _, f := range filenames {
		if nvra, ok := domain.ParseNVRAFromFilename(f); ok {
			return nvra, true
		}
	}
	return domain.NVRA{}, false
}
