package pnc

import (
	"context"

	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/zerr"
)

type wireArtifact struct {
	ID             int64   `json:"id"`
	Filename       string  `json:"filename"`
	ArtifactQuality string `json:"artifactQuality"`
	BuildRecordIDs []int64 `json:"buildRecordIds"`
}

func (w wireArtifact) toDomain() domain.PncArtifact {
	return domain.PncArtifact{
		ID:             w.ID,
		Filename:       w.Filename,
		Quality:        domain.ArtifactQuality(w.ArtifactQuality),
		BuildRecordIDs: w.BuildRecordIDs,
	}
}

type wireBuildRecord struct {
	ID                   int64  `json:"id"`
	Status               string `json:"status"`
	BuildConfigurationID int64  `json:"buildConfigurationId"`
	SCMRevision          string `json:"scmRevision"`
	SCMURL               string `json:"scmUrl"`
	Submitter            string `json:"submitter"`
}

func (w wireBuildRecord) toDomain() domain.PncBuildRecord {
	return domain.PncBuildRecord{
		ID:                   w.ID,
		Status:               w.Status,
		BuildConfigurationID: w.BuildConfigurationID,
		SCMRevision:          w.SCMRevision,
		SCMURL:               w.SCMURL,
		Submitter:            w.Submitter,
	}
}

type wireBuildConfiguration struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	ProductVersionID int64  `json:"productVersionId"`
}

type wireProductVersion struct {
	ID      int64  `json:"id"`
	Version string `json:"version"`
}

type wirePushResult struct {
	BuildRecordID int64  `json:"buildRecordId"`
	BrewBuildID   int64  `json:"brewBuildId"`
	Status        string `json:"status"`
}

// Catalog implements ports.PncCatalog against a PNC instance.
//
// PNC has no notion of KOJI tags, tasks, or RPMs; ListTags, GetTaskInfo,
// ListRpms and ListRpmsByBuild are no-ops that satisfy the shared
// RemoteCatalog contract so the Resolver's engine can treat both catalogs
// uniformly.
type Catalog struct {
	client *Client
}

// New creates a Catalog against the given PNC base URL.
func New(baseURL string) *Catalog {
	return &Catalog{client: NewClient(baseURL)}
}

// System identifies this catalog as PNC.
func (c *Catalog) System() domain.BuildSystem {
	return domain.SystemPNC
}

// ArchiveExtensions returns the fixed set of artifact extensions PNC
// tracks; unlike KOJI, PNC exposes no archive-type registry endpoint.
func (c *Catalog) ArchiveExtensions(_ context.Context) ([]string, error) {
	return []string{"jar", "pom", "war", "ear", "zip", "tar.gz"}, nil
}

// ListArchivesByChecksum adapts GetArtifactsByMd5 into the shared
// RemoteArchive shape by treating every matching PncArtifact's first
// build-record id as the archive's BuildID.
func (c *Catalog) ListArchivesByChecksum(ctx context.Context, checksumType domain.ChecksumType, values []string) ([][]domain.RemoteArchive, error) {
	if checksumType != domain.MD5 {
		return make([][]domain.RemoteArchive, len(values)), nil
	}
	artifactSets, err := c.GetArtifactsByMd5(ctx, values)
	if err != nil {
		return nil, err
	}
	out := make([][]domain.RemoteArchive, len(values))
	for i, artifacts := range artifactSets {
		matches := make([]domain.RemoteArchive, 0, len(artifacts))
		for _, a := range artifacts {
			var buildID int64
			if len(a.BuildRecordIDs) > 0 {
				buildID = a.BuildRecordIDs[0]
			}
			matches = append(matches, domain.RemoteArchive{
				ArchiveID:     a.ID,
				BuildID:       buildID,
				Filename:      a.Filename,
				Checksum:      values[i],
				ChecksumType:  domain.MD5,
				TypeInfoKnown: true,
			})
		}
		out[i] = matches
	}
	return out, nil
}

// GetBuilds adapts GetBuildRecordsByID into BuildInfo, filling in Name and
// Version by chaining through GetBuildConfigurationsByID/
// GetProductVersionsByID the same way findBuildsPnc does when assembling a
// PncBuild.
func (c *Catalog) GetBuilds(ctx context.Context, ids []int64) ([]*domain.BuildInfo, error) {
	records, err := c.GetBuildRecordsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	configIDs := make([]int64, len(records))
	for i, r := range records {
		configIDs[i] = r.BuildConfigurationID
	}
	configs, err := c.GetBuildConfigurationsByID(ctx, configIDs)
	if err != nil {
		return nil, err
	}
	verIDs := make([]int64, len(configs))
	for i, cfg := range configs {
		verIDs[i] = cfg.ProductVersionID
	}
	versions, err := c.GetProductVersionsByID(ctx, verIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.BuildInfo, len(ids))
	for i, r := range records {
		if r.ID == 0 {
			continue
		}
		version := versions[i].Version
		if version == "" {
			version = "unknown"
		}
		out[i] = &domain.BuildInfo{
			ID:      r.ID,
			State:   r.State(),
			Name:    configs[i].Name,
			Version: version,
			Release: r.SCMRevision,
		}
	}
	return out, nil
}

// ListTags always returns empty tag lists: PNC builds carry no tags.
func (c *Catalog) ListTags(_ context.Context, ids []int64) ([][]string, error) {
	return make([][]string, len(ids)), nil
}

// ListArchivesByBuild adapts GetBuiltArtifactsByID into RemoteArchive.
func (c *Catalog) ListArchivesByBuild(ctx context.Context, ids []int64) ([][]domain.RemoteArchive, error) {
	artifactSets, err := c.GetBuiltArtifactsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([][]domain.RemoteArchive, len(ids))
	for i, artifacts := range artifactSets {
		matches := make([]domain.RemoteArchive, len(artifacts))
		for j, a := range artifacts {
			matches[j] = domain.RemoteArchive{
				ArchiveID:     a.ID,
				BuildID:       ids[i],
				Filename:      a.Filename,
				ChecksumType:  domain.MD5,
				TypeInfoKnown: true,
			}
		}
		out[i] = matches
	}
	return out, nil
}

// GetTaskInfo always returns nils: PNC has no KOJI-style task records.
func (c *Catalog) GetTaskInfo(_ context.Context, ids []int64, _ bool) ([]*domain.TaskInfo, error) {
	return make([]*domain.TaskInfo, len(ids)), nil
}

// ListRpms always returns nils: PNC builds Maven/npm artifacts, not RPMs.
func (c *Catalog) ListRpms(_ context.Context, refs []domain.NVRA) ([]*domain.RpmInfo, error) {
	return make([]*domain.RpmInfo, len(refs)), nil
}

// ListRpmsByBuild always returns empty lists.
func (c *Catalog) ListRpmsByBuild(_ context.Context, ids []int64) ([][]domain.RpmInfo, error) {
	return make([][]domain.RpmInfo, len(ids)), nil
}

// EnrichArchiveTypeInfo is a no-op: PNC artifacts carry no scm-source/
// project-source/patches subtype distinction, that classification is
// KOJI-only per §4.6.g.
func (c *Catalog) EnrichArchiveTypeInfo(_ context.Context, archives []*domain.RemoteArchive) error {
	for _, a := range archives {
		a.TypeInfoKnown = true
	}
	return nil
}

// GetArtifactsByMd5 looks up PncArtifacts by md5 checksum.
func (c *Catalog) GetArtifactsByMd5(ctx context.Context, values []string) ([][]domain.PncArtifact, error) {
	out := make([][]domain.PncArtifact, len(values))
	for i, v := range values {
		var artifacts []wireArtifact
		if err := c.client.get(ctx, "/pnc-rest/v2/artifacts", map[string][]string{"md5": {v}}, &artifacts); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "GetArtifactsByMd5"), "cause", err.Error())
		}
		matches := make([]domain.PncArtifact, len(artifacts))
		for j, a := range artifacts {
			matches[j] = a.toDomain()
		}
		out[i] = matches
	}
	return out, nil
}

// GetBuildRecordsByID fetches PNC build-record metadata by id.
func (c *Catalog) GetBuildRecordsByID(ctx context.Context, ids []int64) ([]domain.PncBuildRecord, error) {
	var records []wireBuildRecord
	if err := c.client.get(ctx, "/pnc-rest/v2/builds", idsQuery(ids), &records); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "GetBuildRecordsByID"), "cause", err.Error())
	}
	byID := make(map[int64]wireBuildRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	out := make([]domain.PncBuildRecord, len(ids))
	for i, id := range ids {
		out[i] = byID[id].toDomain()
	}
	return out, nil
}

// GetBuildConfigurationsByID fetches the build configuration each build
// record was built from.
func (c *Catalog) GetBuildConfigurationsByID(ctx context.Context, ids []int64) ([]domain.PncBuildConfiguration, error) {
	var configs []wireBuildConfiguration
	if err := c.client.get(ctx, "/pnc-rest/v2/build-configurations", idsQuery(ids), &configs); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "GetBuildConfigurationsByID"), "cause", err.Error())
	}
	byID := make(map[int64]wireBuildConfiguration, len(configs))
	for _, cfg := range configs {
		byID[cfg.ID] = cfg
	}
	out := make([]domain.PncBuildConfiguration, len(ids))
	for i, id := range ids {
		w := byID[id]
		out[i] = domain.PncBuildConfiguration{ID: w.ID, Name: w.Name, ProductVersionID: w.ProductVersionID}
	}
	return out, nil
}

// GetProductVersionsByID fetches the product version associated with each
// build configuration.
func (c *Catalog) GetProductVersionsByID(ctx context.Context, ids []int64) ([]domain.PncProductVersion, error) {
	var versions []wireProductVersion
	if err := c.client.get(ctx, "/pnc-rest/v2/product-versions", idsQuery(ids), &versions); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "GetProductVersionsByID"), "cause", err.Error())
	}
	byID := make(map[int64]wireProductVersion, len(versions))
	for _, v := range versions {
		byID[v.ID] = v
	}
	out := make([]domain.PncProductVersion, len(ids))
	for i, id := range ids {
		w := byID[id]
		out[i] = domain.PncProductVersion{ID: w.ID, Version: w.Version}
	}
	return out, nil
}

// GetBuildRecordPushResultsByID fetches Brew push results for each build
// record.
func (c *Catalog) GetBuildRecordPushResultsByID(ctx context.Context, ids []int64) ([]domain.PncPushResult, error) {
	var results []wirePushResult
	if err := c.client.get(ctx, "/pnc-rest/v2/push-results", idsQuery(ids), &results); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "GetBuildRecordPushResultsByID"), "cause", err.Error())
	}
	byID := make(map[int64]wirePushResult, len(results))
	for _, r := range results {
		byID[r.BuildRecordID] = r
	}
	out := make([]domain.PncPushResult, len(ids))
	for i, id := range ids {
		w := byID[id]
		out[i] = domain.PncPushResult{BuildRecordID: id, BrewBuildID: w.BrewBuildID, Status: w.Status}
	}
	return out, nil
}

// GetBuiltArtifactsByID fetches the full artifact list produced by each
// build record.
func (c *Catalog) GetBuiltArtifactsByID(ctx context.Context, ids []int64) ([][]domain.PncArtifact, error) {
	out := make([][]domain.PncArtifact, len(ids))
	for i, id := range ids {
		var artifacts []wireArtifact
		if err := c.client.get(ctx, "/pnc-rest/v2/builds/artifacts", idsQuery([]int64{id}), &artifacts); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "GetBuiltArtifactsByID"), "cause", err.Error())
		}
		matches := make([]domain.PncArtifact, len(artifacts))
		for j, a := range artifacts {
			matches[j] = a.toDomain()
		}
		out[i] = matches
	}
	return out, nil
}
