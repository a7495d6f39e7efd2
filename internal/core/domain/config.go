package domain

// ConfigFileName is the configuration file searched for upward from the
// working directory, mirroring the directory-upward search used elsewhere
// in this codebase for project configuration.
const ConfigFileName = "buildfinder.yaml"

// BuildConfig carries the configuration options consumed by the core, per
// §6 of the core specification.
type BuildConfig struct {
	// ChecksumTypes is the set of digest algorithms to consider. Only md5
	// is ever used to query remotes; others are retained on LocalArchive.
	ChecksumTypes []ChecksumType

	// ArchiveTypes whitelists catalog archive-type names; empty means all.
	ArchiveTypes []string

	// ArchiveExtensions whitelists filename extensions; empty means all
	// extensions known to the catalog.
	ArchiveExtensions []string

	// KojiNumThreads bounds the worker pool used for remote RPC fan-out.
	KojiNumThreads int

	// KojiMulticallSize bounds the chunk size of a single batched RPC.
	KojiMulticallSize int

	// BuildSystems is the subset of {KOJI, PNC} to query.
	BuildSystems []BuildSystem

	// KojiURL is the KOJI hub endpoint. Empty disables the KOJI branch.
	KojiURL string

	// PncURL enables the PNC branch when non-empty.
	PncURL string

	// CacheDir is where the persistent cache database lives.
	CacheDir string

	// OutputDir is where builds.json / checksums-<type>.json are written.
	OutputDir string

	// DisableCache bypasses CacheLayer reads and writes entirely (useful
	// for idempotence testing against a live catalog fake).
	DisableCache bool
}

// DefaultConfig returns the configuration used when no file is found and no
// overrides are supplied.
func DefaultConfig() BuildConfig {
	return BuildConfig{
		ChecksumTypes:     []ChecksumType{MD5},
		KojiNumThreads:    10,
		KojiMulticallSize: 10,
		BuildSystems:      []BuildSystem{SystemKoji},
		CacheDir:          ".buildfinder-cache",
		OutputDir:         ".",
	}
}

// HasArchiveExtension reports whether ext is whitelisted, or all are
// whitelisted because the configured list is empty.
func (c BuildConfig) HasArchiveExtension(ext string) bool {
	if len(c.ArchiveExtensions) == 0 {
		return true
	}
	for _, e := range c.ArchiveExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// UsesSystem reports whether system is among the configured BuildSystems.
func (c BuildConfig) UsesSystem(system BuildSystem) bool {
	for _, s := range c.BuildSystems {
		if s == system {
			return true
		}
	}
	return false
}

// UsesPNC reports whether the PNC branch is enabled (non-empty URL and
// PNC present in BuildSystems).
func (c BuildConfig) UsesPNC() bool {
	return c.PncURL != "" && c.UsesSystem(SystemPNC)
}
