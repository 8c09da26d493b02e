package metrics

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"github.com/stackmill/gopack/internal/adapters/config"
	"github.com/stackmill/gopack/internal/core/ports"
)

const NodeID graft.ID = "adapter.metrics"

func init() {
	graft.Register(graft.Node[ports.Metrics]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Metrics, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewEmitter(filepath.Join(cfg.CacheRoot, "metrics.jsonl")), nil
		},
	})
}
