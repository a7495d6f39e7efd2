package resolver

import (
	"context"

	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/zerr"
)

// findBuildsPnc implements §4.6's findBuildsPnc(multimap), the PNC mirror of
// findBuilds restricted to md5 lookups. It returns the subset of multimap
// that PNC could not resolve, for the caller to retry against KOJI.
func (r *Resolver) findBuildsPnc(ctx context.Context, multimap map[domain.Checksum][]string) (map[domain.Checksum][]string, error) {
	if len(multimap) == 0 {
		return nil, nil
	}

	ctx, span := r.tracer.Start(ctx, "resolver.find_builds_pnc")
	defer span.End()

	artifactsByChecksum := make(map[domain.Checksum][]domain.PncArtifact, len(multimap))
	var needRemote []domain.Checksum
	for c := range multimap {
		if c.Type != domain.MD5 {
			continue
		}
		if !r.config.DisableCache {
			if cached, ok := r.cache.GetPncArtifactsByChecksum(c.Value); ok {
				artifactsByChecksum[c] = cached
				continue
			}
		}
		needRemote = append(needRemote, c)
	}

	if len(needRemote) > 0 {
		fetched, err := r.pnc.GetArtifactsByMd5(ctx, checksumValues(needRemote))
		if err != nil {
			return nil, zerr.Wrap(domain.ErrCatalogRequest, "PNC getArtifactsByMd5 failed")
		}
		for i, c := range needRemote {
			artifactsByChecksum[c] = fetched[i]
			if !r.config.DisableCache {
				r.cache.PutPncArtifactsByChecksum(c.Value, fetched[i])
			}
		}
	}

	// Resolve per-checksum: pick the best artifact, find its build record.
	buildRecordByChecksum := make(map[domain.Checksum]int64)
	for c, artifacts := range artifactsByChecksum {
		if len(artifacts) == 0 {
			continue
		}
		chosen := SelectPncArtifact(artifacts)
		if len(chosen.BuildRecordIDs) == 0 {
			continue
		}
		buildRecordByChecksum[c] = chosen.BuildRecordIDs[0]
	}

	recordIDs := uniqueInt64s(valuesOf(buildRecordByChecksum))
	needBuilds := r.pncBuildsNeedingFetch(recordIDs)
	if len(needBuilds) > 0 {
		if err := r.fetchAndPromotePncBuilds(ctx, needBuilds); err != nil {
			return nil, err
		}
	}

	remaining := make(map[domain.Checksum][]string)
	for c, filenames := range multimap {
		if c.Type != domain.MD5 {
			remaining[c] = filenames
			continue
		}
		recordID, hasRecord := buildRecordByChecksum[c]
		if !hasRecord {
			remaining[c] = filenames
			continue
		}
		build, ok := r.output[domain.BuildSystemKey{System: domain.SystemPNC, ID: recordID}]
		if !ok {
			r.logger.Warn("soft miss: no promoted PNC build for matched artifact", "build_record_id", recordID)
			remaining[c] = filenames
			continue
		}
		artifact := artifactForChecksum(artifactsByChecksum[c])
		addArchiveToBuild(build, artifact, filenames, r.fileChecksums)
		r.recordFound(c, filenames)
	}

	return remaining, nil
}

// pncBuildsNeedingFetch mirrors buildsNeedingFetch for the PNC key space.
func (r *Resolver) pncBuildsNeedingFetch(ids []int64) []int64 {
	var need []int64
	for _, id := range ids {
		if _, ok := r.output[domain.BuildSystemKey{System: domain.SystemPNC, ID: id}]; ok {
			continue
		}
		if !r.config.DisableCache {
			if cached, ok := r.cache.GetPncBuildByID(id); ok {
				r.promoteBuild(domain.BuildSystemKey{System: domain.SystemPNC, ID: id}, cached.ToBuild())
				continue
			}
		}
		need = append(need, id)
	}
	return need
}

// fetchAndPromotePncBuilds implements the PNC follow-up fetch named in
// §4.6: a single batch of BuildRecords, BuildConfigurations,
// ProductVersions, BuildRecordPushResults and BuiltArtifacts, adapted to
// the canonical Build shape before insertion into the output map.
func (r *Resolver) fetchAndPromotePncBuilds(ctx context.Context, ids []int64) error {
	records, err := r.pnc.GetBuildRecordsByID(ctx, ids)
	if err != nil {
		return zerr.Wrap(domain.ErrCatalogRequest, "PNC getBuildRecordsById failed")
	}

	configIDs := make([]int64, len(records))
	for i, rec := range records {
		configIDs[i] = rec.BuildConfigurationID
	}
	configs, err := r.pnc.GetBuildConfigurationsByID(ctx, configIDs)
	if err != nil {
		return zerr.Wrap(domain.ErrCatalogRequest, "PNC getBuildConfigurationsById failed")
	}

	versionIDs := make([]int64, len(configs))
	for i, cfg := range configs {
		versionIDs[i] = cfg.ProductVersionID
	}
	versions, err := r.pnc.GetProductVersionsByID(ctx, versionIDs)
	if err != nil {
		return zerr.Wrap(domain.ErrCatalogRequest, "PNC getProductVersionsById failed")
	}

	pushResults, err := r.pnc.GetBuildRecordPushResultsByID(ctx, ids)
	if err != nil {
		return zerr.Wrap(domain.ErrCatalogRequest, "PNC getBuildRecordPushResultsById failed")
	}

	artifacts, err := r.pnc.GetBuiltArtifactsByID(ctx, ids)
	if err != nil {
		return zerr.Wrap(domain.ErrCatalogRequest, "PNC getBuiltArtifactsById failed")
	}

	for i, id := range ids {
		pncBuild := &domain.PncBuild{
			Record:        records[i],
			Configuration: configs[i],
			ProductVer:    versions[i],
			Artifacts:     artifacts[i],
		}
		if pushResults[i].BrewBuildID != 0 {
			pr := pushResults[i]
			pncBuild.PushResult = &pr
		}
		key := domain.BuildSystemKey{System: domain.SystemPNC, ID: id}
		r.promoteBuild(key, pncBuild.ToBuild())
		if !r.config.DisableCache {
			r.cache.PutPncBuildByID(id, pncBuild)
		}
	}
	return nil
}

func artifactForChecksum(artifacts []domain.PncArtifact) domain.RemoteArchive {
	if len(artifacts) == 0 {
		return domain.RemoteArchive{}
	}
	chosen := SelectPncArtifact(artifacts)
	return domain.RemoteArchive{
		ArchiveID: chosen.ID,
		Filename:  chosen.Filename,
	}
}

func uniqueInt64s(values []int64) []int64 {
	seen := make(map[int64]struct{}, len(values))
	var out []int64
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func valuesOf(m map[domain.Checksum]int64) []int64 {
	out := make([]int64, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
