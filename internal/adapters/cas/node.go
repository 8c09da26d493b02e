package cas

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"github.com/stackmill/gopack/internal/adapters/config"
	"github.com/stackmill/gopack/internal/core/ports"
)

const NodeID graft.ID = "adapter.report_store"

func init() {
	graft.Register(graft.Node[ports.ReportStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.ReportStore, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(filepath.Join(cfg.CacheRoot, "report.json")), nil
		},
	})
}
