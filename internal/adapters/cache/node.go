package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/stackmill/gopack/internal/adapters/config"
	"github.com/stackmill/gopack/internal/adapters/logger"
	"github.com/stackmill/gopack/internal/core/ports"
)

const NodeID graft.ID = "adapter.cache_store"

func init() {
	graft.Register(graft.Node[ports.CacheStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.CacheStore, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(cfg.CacheRoot, log), nil
		},
	})
}
