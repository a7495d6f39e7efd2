package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/buildfinder/internal/core/ports"
)

// LoaderNodeID is the unique identifier for the config-loader Graft node.
const LoaderNodeID graft.ID = "adapter.config_loader"

// NodeID is the unique identifier for the resolved BuildConfig Graft node.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        LoaderNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			return NewFileLoader(), nil
		},
	})

	graft.Register(graft.Node[domain.BuildConfig]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{LoaderNodeID},
		Run: func(ctx context.Context) (domain.BuildConfig, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return domain.BuildConfig{}, err
			}
			return loader.Load(".")
		},
	})
}
