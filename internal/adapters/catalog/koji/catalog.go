package koji

import (
	"context"

	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/zerr"
)

// wireArchive/wireBuild/wireRpm/wireTask mirror the JSON shape the hub
// serializes each KOJI record as; they exist only to decode responses
// before adapting into the canonical domain types.
type wireArchive struct {
	ArchiveID     int64  `json:"archive_id"`
	BuildID       int64  `json:"build_id"`
	Filename      string `json:"filename"`
	Checksum      string `json:"checksum"`
	ChecksumType  string `json:"checksum_type"`
	Extension     string `json:"extension"`
	IsImport      bool   `json:"is_import"`
	TypeInfoKnown bool   `json:"type_info_known"`
}

func (w wireArchive) toDomain(checksumType domain.ChecksumType) domain.RemoteArchive {
	ct := checksumType
	if w.ChecksumType != "" {
		ct = domain.ChecksumType(w.ChecksumType)
	}
	return domain.RemoteArchive{
		ArchiveID:     w.ArchiveID,
		BuildID:       w.BuildID,
		Filename:      w.Filename,
		Checksum:      w.Checksum,
		ChecksumType:  ct,
		Extension:     w.Extension,
		IsImport:      w.IsImport,
		TypeInfoKnown: w.TypeInfoKnown,
	}
}

type wireBuild struct {
	ID        int64    `json:"build_id"`
	PackageID int64    `json:"package_id"`
	State     string   `json:"state"`
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Release   string   `json:"release"`
	TaskID    *int64   `json:"task_id"`
	TypeNames []string `json:"type_names"`
}

func (w wireBuild) toDomain() domain.BuildInfo {
	return domain.BuildInfo{
		ID:        w.ID,
		PackageID: w.PackageID,
		State:     domain.BuildState(w.State),
		Name:      w.Name,
		Version:   w.Version,
		Release:   w.Release,
		TaskID:    w.TaskID,
		TypeNames: w.TypeNames,
	}
}

type wireRpm struct {
	ID          int64  `json:"id"`
	BuildID     int64  `json:"build_id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Release     string `json:"release"`
	Arch        string `json:"arch"`
	Payloadhash string `json:"payloadhash"`
}

func (w wireRpm) toDomain() domain.RpmInfo {
	return domain.RpmInfo{
		ID:          w.ID,
		BuildID:     w.BuildID,
		Name:        w.Name,
		Version:     w.Version,
		Release:     w.Release,
		Arch:        w.Arch,
		Payloadhash: w.Payloadhash,
	}
}

type wireTask struct {
	ID      int64    `json:"id"`
	Method  string   `json:"method"`
	State   string   `json:"state"`
	Request []string `json:"request"`
}

// Catalog implements ports.RemoteCatalog against a KOJI hub.
type Catalog struct {
	client       *Client
	checksumType domain.ChecksumType
}

// New creates a Catalog against the given hub URL.
func New(hubURL string) *Catalog {
	return &Catalog{client: NewClient(hubURL), checksumType: domain.MD5}
}

// System identifies this catalog as KOJI.
func (c *Catalog) System() domain.BuildSystem {
	return domain.SystemKoji
}

// ArchiveExtensions fetches the hub's known archive-type extensions.
func (c *Catalog) ArchiveExtensions(ctx context.Context) ([]string, error) {
	results, err := c.client.multicall(ctx, []call{{Method: "getArchiveTypes"}})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "getArchiveTypes"), "cause", err.Error())
	}
	var types []struct {
		Extensions []string `json:"extensions"`
	}
	if err := decodeInto(results[0], &types); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "decode getArchiveTypes"), "cause", err.Error())
	}
	var out []string
	for _, t := range types {
		out = append(out, t.Extensions...)
	}
	return out, nil
}

// ListArchivesByChecksum batches one listArchives call per checksum value.
func (c *Catalog) ListArchivesByChecksum(ctx context.Context, checksumType domain.ChecksumType, values []string) ([][]domain.RemoteArchive, error) {
	calls := make([]call, len(values))
	for i, v := range values {
		calls[i] = call{Method: "listArchives", Params: map[string]any{"checksum": v, "checksum_type": string(checksumType)}}
	}
	results, err := c.client.multicall(ctx, calls)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "listArchives"), "cause", err.Error())
	}
	out := make([][]domain.RemoteArchive, len(values))
	for i, r := range results {
		var archives []wireArchive
		if err := decodeInto(r, &archives); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "decode listArchives"), "cause", err.Error())
		}
		matches := make([]domain.RemoteArchive, len(archives))
		for j, a := range archives {
			matches[j] = a.toDomain(checksumType)
		}
		out[i] = matches
	}
	return out, nil
}

// GetBuilds fetches build metadata by id. A slot whose response decodes to
// a zero-ID record is treated as a soft miss (nil entry), per §7; a hub
// fault on any slot fails the whole call with ErrCatalogRequest.
func (c *Catalog) GetBuilds(ctx context.Context, ids []int64) ([]*domain.BuildInfo, error) {
	calls := make([]call, len(ids))
	for i, id := range ids {
		calls[i] = call{Method: "getBuild", Params: map[string]any{"buildID": id}}
	}
	results, err := c.client.multicall(ctx, calls)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "getBuild"), "cause", err.Error())
	}
	out := make([]*domain.BuildInfo, len(ids))
	for i, r := range results {
		var b wireBuild
		if err := decodeInto(r, &b); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "decode getBuild"), "cause", err.Error())
		}
		if b.ID == 0 {
			continue
		}
		info := b.toDomain()
		out[i] = &info
	}
	return out, nil
}

// ListTags fetches each build's tag list.
func (c *Catalog) ListTags(ctx context.Context, ids []int64) ([][]string, error) {
	calls := make([]call, len(ids))
	for i, id := range ids {
		calls[i] = call{Method: "listTags", Params: map[string]any{"build": id}}
	}
	results, err := c.client.multicall(ctx, calls)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "listTags"), "cause", err.Error())
	}
	out := make([][]string, len(ids))
	for i, r := range results {
		var tags []struct {
			Name string `json:"name"`
		}
		if err := decodeInto(r, &tags); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "decode listTags"), "cause", err.Error())
		}
		names := make([]string, len(tags))
		for j, t := range tags {
			names[j] = t.Name
		}
		out[i] = names
	}
	return out, nil
}

// ListArchivesByBuild fetches every archive attached to each build.
func (c *Catalog) ListArchivesByBuild(ctx context.Context, ids []int64) ([][]domain.RemoteArchive, error) {
	calls := make([]call, len(ids))
	for i, id := range ids {
		calls[i] = call{Method: "listArchives", Params: map[string]any{"buildID": id}}
	}
	results, err := c.client.multicall(ctx, calls)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "listArchives by build"), "cause", err.Error())
	}
	out := make([][]domain.RemoteArchive, len(ids))
	for i, r := range results {
		var archives []wireArchive
		if err := decodeInto(r, &archives); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "decode listArchives by build"), "cause", err.Error())
		}
		matches := make([]domain.RemoteArchive, len(archives))
		for j, a := range archives {
			matches[j] = a.toDomain(c.checksumType)
		}
		out[i] = matches
	}
	return out, nil
}

// GetTaskInfo fetches task metadata for each id.
func (c *Catalog) GetTaskInfo(ctx context.Context, ids []int64, withRequests bool) ([]*domain.TaskInfo, error) {
	calls := make([]call, len(ids))
	for i, id := range ids {
		calls[i] = call{Method: "getTaskInfo", Params: map[string]any{"task_id": id, "request": withRequests}}
	}
	results, err := c.client.multicall(ctx, calls)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "getTaskInfo"), "cause", err.Error())
	}
	out := make([]*domain.TaskInfo, len(ids))
	for i, r := range results {
		var t wireTask
		if err := decodeInto(r, &t); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "decode getTaskInfo"), "cause", err.Error())
		}
		if t.ID == 0 {
			continue
		}
		out[i] = &domain.TaskInfo{ID: t.ID, Method: t.Method, State: t.State, Request: t.Request}
	}
	return out, nil
}

// ListRpms resolves NVRA references to RpmInfo.
func (c *Catalog) ListRpms(ctx context.Context, refs []domain.NVRA) ([]*domain.RpmInfo, error) {
	calls := make([]call, len(refs))
	for i, ref := range refs {
		calls[i] = call{Method: "getRPM", Params: map[string]any{
			"name": ref.Name, "version": ref.Version, "release": ref.Release, "arch": ref.Arch,
		}}
	}
	results, err := c.client.multicall(ctx, calls)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "getRPM"), "cause", err.Error())
	}
	out := make([]*domain.RpmInfo, len(refs))
	for i, r := range results {
		var rpm wireRpm
		if err := decodeInto(r, &rpm); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "decode getRPM"), "cause", err.Error())
		}
		if rpm.ID == 0 {
			continue
		}
		d := rpm.toDomain()
		out[i] = &d
	}
	return out, nil
}

// ListRpmsByBuild fetches every RPM attached to each build.
func (c *Catalog) ListRpmsByBuild(ctx context.Context, ids []int64) ([][]domain.RpmInfo, error) {
	calls := make([]call, len(ids))
	for i, id := range ids {
		calls[i] = call{Method: "listRPMs", Params: map[string]any{"buildID": id}}
	}
	results, err := c.client.multicall(ctx, calls)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "listRPMs"), "cause", err.Error())
	}
	out := make([][]domain.RpmInfo, len(ids))
	for i, r := range results {
		var rpms []wireRpm
		if err := decodeInto(r, &rpms); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "decode listRPMs"), "cause", err.Error())
		}
		matches := make([]domain.RpmInfo, len(rpms))
		for j, rp := range rpms {
			matches[j] = rp.toDomain()
		}
		out[i] = matches
	}
	return out, nil
}

// EnrichArchiveTypeInfo classifies archives in place via getArchiveType,
// per §4.6.g's staleness-refresh pass over the three noted archive
// subtypes.
func (c *Catalog) EnrichArchiveTypeInfo(ctx context.Context, archives []*domain.RemoteArchive) error {
	calls := make([]call, len(archives))
	for i, a := range archives {
		calls[i] = call{Method: "getArchiveType", Params: map[string]any{"filename": a.Filename}}
	}
	results, err := c.client.multicall(ctx, calls)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "getArchiveType"), "cause", err.Error())
	}
	for i, r := range results {
		var info struct {
			IsImport bool `json:"is_import"`
		}
		if err := decodeInto(r, &info); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrCatalogRequest, "decode getArchiveType"), "cause", err.Error())
		}
		archives[i].IsImport = info.IsImport
		archives[i].TypeInfoKnown = true
	}
	return nil
}
