package ports

import "go.trai.ch/buildfinder/internal/core/domain"

// ChecksumQueue is the blocking queue of Checksum records the distribution
// analyzer feeds the Resolver, per §6. Termination is signaled by a record
// with Value == "" and Sentinel == true; Take may return a batch larger
// than one record when the analyzer has queued several before the Resolver
// next drains.
//
//go:generate go run go.uber.org/mock/mockgen -source=analyzer.go -destination=mocks/mock_analyzer.go -package=mocks
type ChecksumQueue interface {
	// Take blocks until at least one record is available, then drains and
	// returns everything currently queued (bulk-per-iteration, per §5).
	Take() ([]QueueEntry, error)
}

// QueueEntry is one record read off the ChecksumQueue: either a resolvable
// checksum, an analyzer-reported error for a filename that could not be
// hashed, or the sentinel that terminates the drain loop.
type QueueEntry struct {
	Checksum domain.Checksum
	// ErroredFilename is set instead of Checksum when the analyzer failed
	// to compute a digest for a file (§4.6.j): it is routed straight to
	// NotFoundTracker.
	ErroredFilename string
	// Sentinel, when true, signals queue exhaustion; Checksum and
	// ErroredFilename are unused.
	Sentinel bool
}
