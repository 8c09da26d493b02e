package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/stackmill/gopack/internal/adapters/logger"
	"github.com/stackmill/gopack/internal/core/ports"
)

const NodeID graft.ID = "adapter.installer"

func init() {
	graft.Register(graft.Node[ports.Installer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Installer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewInstaller(log), nil
		},
	})
}
