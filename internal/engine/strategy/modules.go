package strategy

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/stackmill/gopack/internal/core/domain"
)

// modulesExecutor builds with the Go module system.
type modulesExecutor struct {
	base
}

func (e *modulesExecutor) ResolvePackageSpec(m *domain.Manifest, override string) (domain.PackageSpec, bool) {
	return e.resolveSpec(m, override)
}

// PrepareDependencies downloads the module graph. A populated vendor
// directory makes the download redundant, so it is skipped then, as it
// is when the manifest opts out.
func (e *modulesExecutor) PrepareDependencies(ctx context.Context, m *domain.Manifest) error {
	if m.SkipDependencySync {
		return nil
	}
	if _, err := os.Stat(filepath.Join(m.Dir, "vendor", "modules.txt")); err == nil {
		e.logger.Info("vendor directory present, skipping module download")
		return nil
	}

	env := append([]string{"GO111MODULE=on"}, e.moduleCacheEnv(m)...)
	if err := e.runner.Run(ctx, m.Dir, env, "go", "mod", "download"); err != nil {
		return errors.Join(domain.ErrDependencySyncFailed, err)
	}
	return nil
}

func (e *modulesExecutor) Build(ctx context.Context, m *domain.Manifest, spec domain.PackageSpec) error {
	env := append([]string{"GO111MODULE=on"}, e.moduleCacheEnv(m)...)
	return e.goInstall(ctx, m, spec, env)
}
