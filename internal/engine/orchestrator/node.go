package orchestrator

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"

	"github.com/stackmill/gopack/internal/adapters/cache"
	"github.com/stackmill/gopack/internal/adapters/cas"
	"github.com/stackmill/gopack/internal/adapters/config"
	"github.com/stackmill/gopack/internal/adapters/fs"
	"github.com/stackmill/gopack/internal/adapters/logger"
	"github.com/stackmill/gopack/internal/adapters/metrics"
	"github.com/stackmill/gopack/internal/adapters/shell"
	"github.com/stackmill/gopack/internal/adapters/toolchain"
	"github.com/stackmill/gopack/internal/core/ports"
)

const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			fs.NodeID,
			toolchain.NodeID,
			cache.NodeID,
			shell.NodeID,
			cas.NodeID,
			metrics.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
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
			installer, err := graft.Dep[ports.Installer](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			reports, err := graft.Dep[ports.ReportStore](ctx)
			if err != nil {
				return nil, err
			}
			meter, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}
			opts := Options{
				PackageSpecOverride: cfg.PackageSpecOverride,
				DisableCache:        cfg.DisableCache,
				CacheDirs:           cfg.CacheDirs,
				ModuleCacheDir:      cfg.ModuleCacheDir,
				SkipFetch:           cfg.SkipFetch,
				LinkSymbol:          cfg.LinkSymbol,
				LinkValue:           cfg.LinkValue,
				Stack:               cfg.Stack,
				ToolDir:             filepath.Join(cfg.CacheRoot, "tools"),
			}
			return New(loader, installer, store, runner, reports, log, meter, opts), nil
		},
	})
}
