package cache

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildfinder/internal/adapters/config" //nolint:depguard // wired in app layer
	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/buildfinder/internal/core/ports"
)

// NodeID is the unique identifier for the cache adapter Graft node.
const NodeID graft.ID = "adapter.cache"

func init() {
	graft.Register(graft.Node[ports.Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Cache, error) {
			cfg, err := graft.Dep[domain.BuildConfig](ctx)
			if err != nil {
				return nil, err
			}
			return Open(filepath.Join(cfg.CacheDir, "buildfinder-cache.db"))
		},
	})
}
