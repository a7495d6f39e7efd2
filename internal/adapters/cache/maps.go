package cache

import (
	"database/sql"
	"errors"
	"reflect"
	"strconv"

	"go.trai.ch/buildfinder/internal/core/domain"
)

// GetArchivesByChecksum implements ports.Cache.
func (c *Cache) GetArchivesByChecksum(checksumType domain.ChecksumType, value string) ([]domain.RemoteArchive, bool) {
	key := hotKey("archives", string(checksumType), value)
	if v, ok := c.hot.Get(key); ok {
		return v.([]domain.RemoteArchive), true
	}

	var raw string
	err := c.db.QueryRow(
		"SELECT archives_json FROM archives_by_checksum WHERE checksum_type = ? AND checksum_value = ?",
		string(checksumType), value,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	archives, decodeErr := decode[[]domain.RemoteArchive](raw)
	if decodeErr != nil {
		return nil, false
	}
	c.hot.Set(key, archives, int64(len(raw)))
	return archives, true
}

// PutArchivesByChecksum implements ports.Cache. An empty archives slice is
// a valid negative cache entry.
func (c *Cache) PutArchivesByChecksum(checksumType domain.ChecksumType, value string, archives []domain.RemoteArchive) {
	if archives == nil {
		archives = []domain.RemoteArchive{}
	}
	raw, err := encode(archives)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.db.Exec(
		`INSERT INTO archives_by_checksum (checksum_type, checksum_value, archives_json) VALUES (?, ?, ?)
		 ON CONFLICT(checksum_type, checksum_value) DO UPDATE SET archives_json = excluded.archives_json`,
		string(checksumType), value, raw,
	)
	c.hot.Set(hotKey("archives", string(checksumType), value), archives, int64(len(raw)))
}

// GetRpmBuildByChecksum implements ports.Cache.
func (c *Cache) GetRpmBuildByChecksum(checksumType domain.ChecksumType, value string) (*domain.RpmInfo, bool) {
	key := hotKey("rpm", string(checksumType), value)
	if v, ok := c.hot.Get(key); ok {
		rpm, _ := v.(*domain.RpmInfo)
		return rpm, true
	}

	var raw sql.NullString
	err := c.db.QueryRow(
		"SELECT rpm_json FROM rpm_by_checksum WHERE checksum_type = ? AND checksum_value = ?",
		string(checksumType), value,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}
	if !raw.Valid {
		c.hot.Set(key, (*domain.RpmInfo)(nil), 1)
		return nil, true
	}

	rpm, decodeErr := decode[domain.RpmInfo](raw.String)
	if decodeErr != nil {
		return nil, false
	}
	c.hot.Set(key, &rpm, int64(len(raw.String)))
	return &rpm, true
}

// PutRpmBuildByChecksum implements ports.Cache. rpm == nil is a valid
// negative cache entry.
func (c *Cache) PutRpmBuildByChecksum(checksumType domain.ChecksumType, value string, rpm *domain.RpmInfo) {
	var raw sql.NullString
	if rpm != nil {
		encoded, err := encode(rpm)
		if err != nil {
			return
		}
		raw = sql.NullString{String: encoded, Valid: true}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.db.Exec(
		`INSERT INTO rpm_by_checksum (checksum_type, checksum_value, rpm_json) VALUES (?, ?, ?)
		 ON CONFLICT(checksum_type, checksum_value) DO UPDATE SET rpm_json = excluded.rpm_json`,
		string(checksumType), value, raw,
	)
	c.hot.Set(hotKey("rpm", string(checksumType), value), rpm, 1)
}

// GetBuildByID implements ports.Cache.
func (c *Cache) GetBuildByID(id int64) (*domain.Build, bool) {
	key := hotKey("build", int64Key(id))
	if v, ok := c.hot.Get(key); ok {
		build, _ := v.(*domain.Build)
		return build, true
	}

	var raw string
	err := c.db.QueryRow("SELECT build_json FROM build_by_id WHERE build_id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	build, decodeErr := decode[domain.Build](raw)
	if decodeErr != nil {
		return nil, false
	}
	c.hot.Set(key, &build, int64(len(raw)))
	return &build, true
}

// PutBuildByID implements ports.Cache: the first caller for a given id
// wins. A later write with a different payload for a non-RPM build is
// reported via logWarn instead of overwriting, except for RPM-typed builds
// (identified by their archives all being RPM-backed), which may
// legitimately re-cache (§4.2).
func (c *Cache) PutBuildByID(id int64, build *domain.Build, logWarn func(msg string, args ...any)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.getBuildByIDLocked(id); ok {
		if isRpmBuild(existing) || isRpmBuild(build) {
			c.writeBuildLocked(id, build)
			return
		}
		if !buildsEqual(existing, build) {
			logWarn("cache inconsistency: build id already cached with a different payload", "build_id", id)
		}
		return
	}

	c.writeBuildLocked(id, build)
}

func (c *Cache) getBuildByIDLocked(id int64) (*domain.Build, bool) {
	var raw string
	err := c.db.QueryRow("SELECT build_json FROM build_by_id WHERE build_id = ?", id).Scan(&raw)
	if err != nil {
		return nil, false
	}
	build, decodeErr := decode[domain.Build](raw)
	if decodeErr != nil {
		return nil, false
	}
	return &build, true
}

func (c *Cache) writeBuildLocked(id int64, build *domain.Build) {
	raw, err := encode(build)
	if err != nil {
		return
	}
	_, _ = c.db.Exec(
		`INSERT INTO build_by_id (build_id, build_json) VALUES (?, ?)
		 ON CONFLICT(build_id) DO UPDATE SET build_json = excluded.build_json`,
		id, raw,
	)
	c.hot.Set(hotKey("build", int64Key(id)), build, int64(len(raw)))
}

func isRpmBuild(b *domain.Build) bool {
	if len(b.Archives) == 0 {
		return false
	}
	for _, a := range b.Archives {
		if a.Rpm == nil {
			return false
		}
	}
	return true
}

func buildsEqual(a, b *domain.Build) bool {
	return reflect.DeepEqual(a.Info, b.Info)
}

// GetPncArtifactsByChecksum implements ports.Cache.
func (c *Cache) GetPncArtifactsByChecksum(value string) ([]domain.PncArtifact, bool) {
	key := hotKey("pnc-artifacts", value)
	if v, ok := c.hot.Get(key); ok {
		return v.([]domain.PncArtifact), true
	}

	var raw string
	err := c.db.QueryRow("SELECT artifacts_json FROM pnc_artifacts_by_checksum WHERE checksum_value = ?", value).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	artifacts, decodeErr := decode[[]domain.PncArtifact](raw)
	if decodeErr != nil {
		return nil, false
	}
	c.hot.Set(key, artifacts, int64(len(raw)))
	return artifacts, true
}

// PutPncArtifactsByChecksum implements ports.Cache.
func (c *Cache) PutPncArtifactsByChecksum(value string, artifacts []domain.PncArtifact) {
	if artifacts == nil {
		artifacts = []domain.PncArtifact{}
	}
	raw, err := encode(artifacts)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.db.Exec(
		`INSERT INTO pnc_artifacts_by_checksum (checksum_value, artifacts_json) VALUES (?, ?)
		 ON CONFLICT(checksum_value) DO UPDATE SET artifacts_json = excluded.artifacts_json`,
		value, raw,
	)
	c.hot.Set(hotKey("pnc-artifacts", value), artifacts, int64(len(raw)))
}

// GetPncBuildByID implements ports.Cache.
func (c *Cache) GetPncBuildByID(id int64) (*domain.PncBuild, bool) {
	key := hotKey("pnc-build", int64Key(id))
	if v, ok := c.hot.Get(key); ok {
		build, _ := v.(*domain.PncBuild)
		return build, true
	}

	var raw string
	err := c.db.QueryRow("SELECT build_json FROM pnc_build_by_id WHERE build_id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	build, decodeErr := decode[domain.PncBuild](raw)
	if decodeErr != nil {
		return nil, false
	}
	c.hot.Set(key, &build, int64(len(raw)))
	return &build, true
}

// PutPncBuildByID implements ports.Cache.
func (c *Cache) PutPncBuildByID(id int64, build *domain.PncBuild) {
	raw, err := encode(build)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.db.Exec(
		`INSERT INTO pnc_build_by_id (build_id, build_json) VALUES (?, ?)
		 ON CONFLICT(build_id) DO UPDATE SET build_json = excluded.build_json`,
		id, raw,
	)
	c.hot.Set(hotKey("pnc-build", int64Key(id)), build, int64(len(raw)))
}

func int64Key(id int64) string {
	return strconv.FormatInt(id, 10)
}
