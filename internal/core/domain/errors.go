package domain

import "go.trai.ch/zerr"

var (
	// ErrCatalogRequest is returned when a RemoteCatalog RPC fails. Some
	// callers attach details (the underlying cause, the batch size) via
	// zerr.With.
	ErrCatalogRequest = zerr.New("remote catalog request failed")

	// ErrDataInconsistency is returned when the remote catalog's response
	// violates a contract this engine depends on (e.g. an RPM payload hash
	// that does not match the queried md5). Fatal: the current batch is
	// abandoned with no partial mutation of the output map.
	ErrDataInconsistency = zerr.New("remote catalog returned inconsistent data")

	// ErrCacheRequest is returned when the persistent cache backend fails to
	// read or write a value.
	ErrCacheRequest = zerr.New("cache request failed")

	// ErrConfigNotFound is returned when no configuration file can be
	// located by the upward directory search.
	ErrConfigNotFound = zerr.New("could not find buildfinder.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrResultWriteFailed is returned when the final output map cannot be
	// serialized to the output directory.
	ErrResultWriteFailed = zerr.New("failed to write result output")

	// ErrResultReadFailed is returned when a persisted output map cannot be
	// read back (round-trip verification, resume support).
	ErrResultReadFailed = zerr.New("failed to read result output")
)
