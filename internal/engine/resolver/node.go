package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildfinder/internal/adapters/analyzer"  //nolint:depguard // wired in engine wiring
	"go.trai.ch/buildfinder/internal/adapters/cache"     //nolint:depguard // wired in engine wiring
	"go.trai.ch/buildfinder/internal/adapters/catalog/koji" //nolint:depguard // wired in engine wiring
	"go.trai.ch/buildfinder/internal/adapters/catalog/pnc"  //nolint:depguard // wired in engine wiring
	"go.trai.ch/buildfinder/internal/adapters/config"    //nolint:depguard // wired in engine wiring
	"go.trai.ch/buildfinder/internal/adapters/logger"    //nolint:depguard // wired in engine wiring
	"go.trai.ch/buildfinder/internal/adapters/telemetry" //nolint:depguard // wired in engine wiring
	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/buildfinder/internal/core/ports"
)

// NodeID is the unique identifier for the Resolver Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			koji.NodeID,
			pnc.NodeID,
			cache.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			analyzer.NodeID,
		},
		Run: func(ctx context.Context) (*Resolver, error) {
			cfg, err := graft.Dep[domain.BuildConfig](ctx)
			if err != nil {
				return nil, err
			}

			kojiCatalog, err := graft.Dep[ports.RemoteCatalog](ctx)
			if err != nil {
				return nil, err
			}

			pncCatalog, err := graft.Dep[ports.PncCatalog](ctx)
			if err != nil {
				return nil, err
			}

			c, err := graft.Dep[ports.Cache](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			queue, err := graft.Dep[*analyzer.Queue](ctx)
			if err != nil {
				return nil, err
			}

			return New(cfg, kojiCatalog, pncCatalog, c, queue, log, tracer), nil
		},
	})
}
