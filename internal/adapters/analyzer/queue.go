// Package analyzer implements the in-process ports.ChecksumQueue the
// distribution analyzer publishes to and the Resolver drains, per §6's bulk-
// per-iteration handoff between the two.
package analyzer

import (
	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/buildfinder/internal/core/ports"
)

// Queue is a channel-backed ports.ChecksumQueue. The analyzer side calls
// PushChecksum/PushError as it streams digests; Close signals exhaustion.
// A single reader is expected: the Resolver's drain loop.
type Queue struct {
	entries chan ports.QueueEntry
}

// New creates an empty Queue buffered to hold size pending entries before
// PushChecksum/PushError block.
func New(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{entries: make(chan ports.QueueEntry, size)}
}

// PushChecksum enqueues a resolvable checksum.
func (q *Queue) PushChecksum(c domain.Checksum) {
	q.entries <- ports.QueueEntry{Checksum: c}
}

// PushError enqueues an analyzer-reported failure to hash filename.
func (q *Queue) PushError(filename string) {
	q.entries <- ports.QueueEntry{ErroredFilename: filename}
}

// Close signals exhaustion; no further Push calls may follow.
func (q *Queue) Close() {
	q.entries <- ports.QueueEntry{Sentinel: true}
	close(q.entries)
}

// Take blocks for the first entry, then drains everything else already
// buffered without blocking, satisfying the bulk-per-iteration contract.
func (q *Queue) Take() ([]ports.QueueEntry, error) {
	first, ok := <-q.entries
	if !ok {
		return []ports.QueueEntry{{Sentinel: true}}, nil
	}
	batch := []ports.QueueEntry{first}
	for {
		select {
		case e, ok := <-q.entries:
			if !ok {
				return batch, nil
			}
			batch = append(batch, e)
		default:
			return batch, nil
		}
	}
}
