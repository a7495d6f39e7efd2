// Package resolver implements the Build Resolution Engine core: the
// orchestrator that consumes a stream of content checksums and produces a
// consolidated map of resolved builds against KOJI and PNC.
package resolver

import (
	"strings"

	"go.trai.ch/buildfinder/internal/core/domain"
)

// Gate filters incoming checksums (§4.1): it drops empty-digest entries and
// partitions the rest into RPM vs archive entries. Per the SUPPLEMENTED
// FEATURES / Open Questions decision, the archive-extension check never
// filters an entry — it only reports (via logWarn) when no filename on the
// entry carries a recognized extension, matching the original's
// shouldSkipChecksum, whose return value is unused on that path.
type Gate struct {
	extensions map[string]struct{}
}

// NewGate builds a Gate from the configured extension whitelist, falling
// back to the catalog's known archive-type extensions when the configured
// list is empty.
func NewGate(catalogExtensions, configuredExtensions []string) *Gate {
	set := make(map[string]struct{}, len(catalogExtensions)+len(configuredExtensions))
	if len(configuredExtensions) == 0 {
		for _, e := range catalogExtensions {
			set[normalizeExt(e)] = struct{}{}
		}
	}
	for _, e := range configuredExtensions {
		set[normalizeExt(e)] = struct{}{}
	}
	return &Gate{extensions: set}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// hasKnownExtension reports whether any of filenames ends in a recognized
// archive extension or ".rpm".
func (g *Gate) hasKnownExtension(filenames []string) bool {
	for _, f := range filenames {
		lower := strings.ToLower(f)
		if strings.HasSuffix(lower, ".rpm") {
			return true
		}
		if idx := strings.LastIndex(lower, "."); idx >= 0 {
			if _, ok := g.extensions[lower[idx+1:]]; ok {
				return true
			}
		}
	}
	return false
}

// IsRPM reports whether any filename in the entry ends with ".rpm",
// deciding the RPM/archive partition of §4.1.
func (g *Gate) IsRPM(filenames []string) bool {
	for _, f := range filenames {
		if strings.HasSuffix(strings.ToLower(f), ".rpm") {
			return true
		}
	}
	return false
}

// Accept reports whether checksum should be processed at all: false only
// for an empty-digest checksum. A checksum whose filenames carry no
// recognized extension is still accepted, but logWarn is invoked to report
// the condition (mirroring shouldSkipChecksum's dead return value).
func (g *Gate) Accept(c domain.Checksum, filenames []string, logWarn func(msg string, args ...any)) bool {
	if c.Type.IsEmptyDigest(c.Value) {
		logWarn("skipping checksum with empty digest", "type", c.Type, "filename", c.Filename)
		return false
	}
	if !g.hasKnownExtension(filenames) {
		logWarn("no recognized archive extension for checksum", "value", c.Value, "filenames", filenames)
	}
	return true
}
