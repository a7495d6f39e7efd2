package pnc

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildfinder/internal/adapters/config" //nolint:depguard // wired in app layer
	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/buildfinder/internal/core/ports"
)

// NodeID is the unique identifier for the PNC catalog Graft node.
const NodeID graft.ID = "adapter.catalog.pnc"

func init() {
	graft.Register(graft.Node[ports.PncCatalog]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.PncCatalog, error) {
			cfg, err := graft.Dep[domain.BuildConfig](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.PncURL), nil
		},
	})
}
