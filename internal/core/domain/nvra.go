package domain

import "strings"

// NVRA is the name-version-release-architecture identity tuple RPMs are
// keyed by in the KOJI catalog.
type NVRA struct {
	Name    string
	Version string
	Release string
	Arch    string
}

// ParseNVRAFromFilename splits an RPM filename of the form
// "name-version-release.arch.rpm" into its constituent fields, per the
// original's RpmNvra handling (§4.6.h / SUPPLEMENTED FEATURES). Returns
// false if filename does not have at least three hyphen-delimited fields
// preceding the ".arch.rpm" suffix.
func ParseNVRAFromFilename(filename string) (NVRA, bool) {
	name := strings.TrimSuffix(filename, ".rpm")
	if name == filename {
		return NVRA{}, false
	}

	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return NVRA{}, false
	}
	arch := name[dot+1:]
	rest := name[:dot]

	releaseSep := strings.LastIndex(rest, "-")
	if releaseSep < 0 {
		return NVRA{}, false
	}
	release := rest[releaseSep+1:]
	rest = rest[:releaseSep]

	versionSep := strings.LastIndex(rest, "-")
	if versionSep < 0 {
		return NVRA{}, false
	}
	version := rest[versionSep+1:]
	name = rest[:versionSep]

	if name == "" || version == "" || release == "" || arch == "" {
		return NVRA{}, false
	}

	return NVRA{Name: name, Version: version, Release: release, Arch: arch}, true
}

// Filename reconstructs the canonical "name-version-release.arch.rpm" form.
func (n NVRA) Filename() string {
	return n.Name + "-" + n.Version + "-" + n.Release + "." + n.Arch + ".rpm"
}

// NVR renders the name-version-release identity, dropping the architecture.
func (n NVRA) NVR() string {
	return n.Name + "-" + n.Version + "-" + n.Release
}
