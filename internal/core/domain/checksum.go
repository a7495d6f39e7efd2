// Package domain holds the types and invariants of the Build Resolution
// Engine, independent of any adapter.
package domain

// ChecksumType is a supported content-digest algorithm.
type ChecksumType string

const (
	MD5    ChecksumType = "md5"
	SHA1   ChecksumType = "sha1"
	SHA256 ChecksumType = "sha256"
)

// emptyDigests maps each ChecksumType to the digest of the empty input,
// used by the resolver's ChecksumGate to drop content-free entries.
var emptyDigests = map[ChecksumType]string{
	MD5:    "d41d8cd98f00b204e9800998ecf8427e",
	SHA1:   "da39a3ee5e6b4b0d3255bfef95601890afd80709",
	SHA256: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
}

// IsEmptyDigest reports whether value is the digest of zero bytes under t.
func (t ChecksumType) IsEmptyDigest(value string) bool {
	return emptyDigests[t] == value
}

// Checksum is an immutable content digest tagged with its algorithm and the
// filename it was computed from. The analyzer produces a stream of these.
type Checksum struct {
	Type     ChecksumType
	Value    string
	Filename string
}

// BuildSystem identifies which remote catalog a BuildSystemKey belongs to.
type BuildSystem string

const (
	SystemNone BuildSystem = "NONE"
	SystemKoji BuildSystem = "KOJI"
	SystemPNC  BuildSystem = "PNC"
)

// BuildSystemKey uniquely identifies a Build across both remote catalogs.
// The pair (NONE, 0) names the synthetic bucket for unresolved content.
type BuildSystemKey struct {
	System BuildSystem
	ID     int64
}

// NotFoundKey is the synthetic bucket that collects unresolved checksums.
var NotFoundKey = BuildSystemKey{System: SystemNone, ID: 0}
