// Package config loads the BuildConfig consumed by the resolver core from a
// buildfinder.yaml file, searched for upward from the working directory.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileLoader implements ports.ConfigLoader over a YAML file.
type FileLoader struct {
	Filename string
}

// NewFileLoader constructs a FileLoader searching for domain.ConfigFileName.
func NewFileLoader() *FileLoader {
	return &FileLoader{Filename: domain.ConfigFileName}
}

// fileDTO mirrors the on-disk YAML shape of buildfinder.yaml.
type fileDTO struct {
	ChecksumTypes     []string `yaml:"checksumTypes"`
	ArchiveTypes      []string `yaml:"archiveTypes"`
	ArchiveExtensions []string `yaml:"archiveExtensions"`
	KojiNumThreads    int      `yaml:"kojiNumThreads"`
	KojiMulticallSize int      `yaml:"kojiMulticallSize"`
	BuildSystems      []string `yaml:"buildSystems"`
	KojiURL           string   `yaml:"kojiURL"`
	PncURL            string   `yaml:"pncURL"`
	CacheDir          string   `yaml:"cacheDir"`
	OutputDir         string   `yaml:"outputDir"`
	DisableCache      bool     `yaml:"disableCache"`
}

// Load searches upward from cwd for l.Filename and parses it into a
// domain.BuildConfig, falling back to domain.DefaultConfig when no file is
// found anywhere up to the filesystem root.
func (l *FileLoader) Load(cwd string) (domain.BuildConfig, error) {
	path, err := findUpward(cwd, l.Filename)
	if err != nil {
		return domain.DefaultConfig(), nil //nolint:nilerr // absence of a config file is not fatal
	}

	//nolint:gosec // path is discovered by upward directory search, not user-controlled network input
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.BuildConfig{}, zerr.Wrap(domain.ErrConfigReadFailed, path)
	}

	var dto fileDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return domain.BuildConfig{}, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, path), "path", path)
	}

	return dto.toConfig(), nil
}

func (dto fileDTO) toConfig() domain.BuildConfig {
	cfg := domain.DefaultConfig()

	if len(dto.ChecksumTypes) > 0 {
		cfg.ChecksumTypes = make([]domain.ChecksumType, len(dto.ChecksumTypes))
		for i, t := range dto.ChecksumTypes {
			cfg.ChecksumTypes[i] = domain.ChecksumType(t)
		}
	}
	if len(dto.ArchiveTypes) > 0 {
		cfg.ArchiveTypes = dto.ArchiveTypes
	}
	if len(dto.ArchiveExtensions) > 0 {
		cfg.ArchiveExtensions = dto.ArchiveExtensions
	}
	if dto.KojiNumThreads > 0 {
		cfg.KojiNumThreads = dto.KojiNumThreads
	}
	if dto.KojiMulticallSize > 0 {
		cfg.KojiMulticallSize = dto.KojiMulticallSize
	}
	if len(dto.BuildSystems) > 0 {
		cfg.BuildSystems = make([]domain.BuildSystem, len(dto.BuildSystems))
		for i, s := range dto.BuildSystems {
			cfg.BuildSystems[i] = domain.BuildSystem(s)
		}
	}
	if dto.KojiURL != "" {
		cfg.KojiURL = dto.KojiURL
	}
	if dto.PncURL != "" {
		cfg.PncURL = dto.PncURL
	}
	if dto.CacheDir != "" {
		cfg.CacheDir = dto.CacheDir
	}
	if dto.OutputDir != "" {
		cfg.OutputDir = dto.OutputDir
	}
	cfg.DisableCache = dto.DisableCache

	return cfg
}

// findUpward walks from dir toward the filesystem root looking for
// filename, mirroring this codebase's directory-upward config search
// convention.
func findUpward(dir, filename string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve absolute path")
	}

	for {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(domain.ErrConfigNotFound, "filename", filename)
		}
		dir = parent
	}
}
