// Package app implements the application layer for gopack.
package app

import (
	"context"
	"errors"

	"go.trai.ch/zerr"

	"github.com/stackmill/gopack/internal/adapters/config"
	"github.com/stackmill/gopack/internal/core/domain"
	"github.com/stackmill/gopack/internal/core/ports"
)

// Builder runs the build state machine for a project directory.
type Builder interface {
	Build(ctx context.Context, buildDir string) (*domain.Report, error)
}

// App represents the main application logic.
type App struct {
	builder Builder
	loader  ports.ManifestLoader
	cache   ports.CacheStore
	logger  ports.Logger
	cfg     *config.Config
}

// New creates a new App instance.
func New(builder Builder, loader ports.ManifestLoader, cache ports.CacheStore, logger ports.Logger, cfg *config.Config) *App {
	return &App{
		builder: builder,
		loader:  loader,
		cache:   cache,
		logger:  logger,
		cfg:     cfg,
	}
}

// Build runs a full build of dir. Git credentials, when configured,
// are held as a scoped resource for exactly the duration of the build:
// the temporary netrc is released on normal exit, on error and on
// interrupt alike.
func (a *App) Build(ctx context.Context, dir string) (*domain.Report, error) {
	release, err := a.acquireCredentials()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to set up git credentials")
	}
	defer release()

	return a.builder.Build(ctx, dir)
}

// Detect reports the strategy a build of dir would use, applying the
// same fallback as the build itself: a marker-less directory with Go
// sources builds with modules.
func (a *App) Detect(dir string) (domain.ToolStrategy, error) {
	m, err := a.loader.Load(dir)
	if err != nil {
		return 0, err
	}
	strat, err := domain.DetectStrategy(m)
	if err == nil {
		return strat, nil
	}
	if errors.Is(err, domain.ErrNoStrategy) && m.HasGoSources {
		a.logger.Warn("no dependency-management configuration found, assuming Go modules")
		return domain.StrategyModules, nil
	}
	return 0, err
}

// Clean wipes the build cache.
func (a *App) Clean() error {
	if err := a.cache.Clear(); err != nil {
		return zerr.Wrap(err, "failed to clear build cache")
	}
	a.logger.Info("build cache cleared")
	return nil
}
