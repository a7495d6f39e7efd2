package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/buildfinder/internal/adapters/analyzer" //nolint:depguard // wired in app layer
	"go.trai.ch/buildfinder/internal/adapters/config"   //nolint:depguard // wired in app layer
	"go.trai.ch/buildfinder/internal/adapters/jsonio"   //nolint:depguard // wired in app layer
	"go.trai.ch/buildfinder/internal/adapters/logger"   //nolint:depguard // wired in app layer
	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/buildfinder/internal/core/ports"
	"go.trai.ch/buildfinder/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components
	// Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			resolver.NodeID,
			analyzer.NodeID,
			jsonio.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			cfg, err := graft.Dep[domain.BuildConfig](ctx)
			if err != nil {
				return nil, err
			}

			res, err := graft.Dep[*resolver.Resolver](ctx)
			if err != nil {
				return nil, err
			}

			queue, err := graft.Dep[*analyzer.Queue](ctx)
			if err != nil {
				return nil, err
			}

			writer, err := graft.Dep[ports.ResultWriter](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(cfg, res, queue, writer, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[domain.BuildConfig](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{App: application, Logger: log, Config: cfg}, nil
}
