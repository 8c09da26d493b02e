package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/stackmill/gopack/internal/adapters/cache"
	"github.com/stackmill/gopack/internal/adapters/config"
	"github.com/stackmill/gopack/internal/adapters/fs"
	"github.com/stackmill/gopack/internal/adapters/logger"
	"github.com/stackmill/gopack/internal/core/ports"
	"github.com/stackmill/gopack/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the components graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components the
// CLI layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
	Config *config.Config
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			fs.NodeID,
			cache.NodeID,
			orchestrator.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			loader, err := graft.Dep[ports.ManifestLoader](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
			if err != nil {
				return nil, err
			}
			return New(orch, loader, store, log, cfg), nil
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
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: application, Logger: log, Config: cfg}, nil
		},
	})
}
