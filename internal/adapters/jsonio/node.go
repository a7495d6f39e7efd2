package jsonio

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildfinder/internal/core/ports"
)

// NodeID is the unique identifier for the result-writer Graft node.
const NodeID graft.ID = "adapter.result_writer"

func init() {
	graft.Register(graft.Node[ports.ResultWriter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ResultWriter, error) {
			return New(), nil
		},
	})
}
