package analyzer

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the checksum queue Graft node. The
// concrete *Queue type is registered (rather than ports.ChecksumQueue) so
// that both the Resolver (which only needs Take) and the app layer (which
// needs PushChecksum/PushError/Close to feed the analyzer's output in) can
// depend on the same instance.
const NodeID graft.ID = "adapter.analyzer.queue"

// QueueSize bounds how many entries the analyzer may have in flight before
// PushChecksum/PushError block on the Resolver's drain loop.
const QueueSize = 256

func init() {
	graft.Register(graft.Node[*Queue]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Queue, error) {
			return New(QueueSize), nil
		},
	})
}
