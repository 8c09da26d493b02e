package strategy

import (
	"context"
	"errors"

	"github.com/stackmill/gopack/internal/core/domain"
)

// The legacy executors all build in GOPATH mode: module resolution
// stays off and dependencies come from the vendor tree their tool
// maintains.
var gopathEnv = []string{"GO111MODULE=off"}

// depExecutor builds dep-managed projects (Gopkg.lock).
type depExecutor struct {
	base
}

func (e *depExecutor) ResolvePackageSpec(m *domain.Manifest, override string) (domain.PackageSpec, bool) {
	return e.resolveSpec(m, override)
}

func (e *depExecutor) PrepareDependencies(ctx context.Context, m *domain.Manifest) error {
	if m.SkipDependencySync {
		e.logger.Info("dep ensure disabled by configuration")
		return nil
	}
	if err := e.runner.Run(ctx, m.Dir, gopathEnv, "dep", "ensure"); err != nil {
		return errors.Join(domain.ErrDependencySyncFailed, err)
	}
	return nil
}

func (e *depExecutor) Build(ctx context.Context, m *domain.Manifest, spec domain.PackageSpec) error {
	return e.goInstall(ctx, m, spec, gopathEnv)
}

// godepExecutor builds godep-managed projects (Godeps/Godeps.json).
// The Godeps workspace is already vendored, so there is no sync step.
type godepExecutor struct {
	base
}

func (e *godepExecutor) ResolvePackageSpec(m *domain.Manifest, override string) (domain.PackageSpec, bool) {
	return e.resolveSpec(m, override)
}

func (e *godepExecutor) PrepareDependencies(_ context.Context, _ *domain.Manifest) error {
	return nil
}

func (e *godepExecutor) Build(ctx context.Context, m *domain.Manifest, spec domain.PackageSpec) error {
	args := []string{"go", "install", "-v", "-tags", e.flags.Tag}
	if ld := e.flags.ldflags(); ld != "" {
		args = append(args, "-ldflags", ld)
	}
	args = append(args, spec...)

	if err := e.runner.Run(ctx, m.Dir, gopathEnv, "godep", args...); err != nil {
		return errors.Join(domain.ErrBuildFailed, err)
	}
	return nil
}

// govendorExecutor builds govendor-managed projects (vendor/vendor.json).
type govendorExecutor struct {
	base
}

func (e *govendorExecutor) ResolvePackageSpec(m *domain.Manifest, override string) (domain.PackageSpec, bool) {
	return e.resolveSpec(m, override)
}

func (e *govendorExecutor) PrepareDependencies(ctx context.Context, m *domain.Manifest) error {
	if m.SkipDependencySync {
		e.logger.Info("govendor sync disabled by configuration")
		return nil
	}
	if err := e.runner.Run(ctx, m.Dir, gopathEnv, "govendor", "sync"); err != nil {
		return errors.Join(domain.ErrDependencySyncFailed, err)
	}
	return nil
}

func (e *govendorExecutor) Build(ctx context.Context, m *domain.Manifest, spec domain.PackageSpec) error {
	return e.goInstall(ctx, m, spec, gopathEnv)
}

// glideExecutor builds glide-managed projects (glide.yaml).
type glideExecutor struct {
	base
}

func (e *glideExecutor) ResolvePackageSpec(m *domain.Manifest, override string) (domain.PackageSpec, bool) {
	return e.resolveSpec(m, override)
}

func (e *glideExecutor) PrepareDependencies(ctx context.Context, m *domain.Manifest) error {
	if m.SkipDependencySync {
		e.logger.Info("glide install disabled by configuration")
		return nil
	}
	if err := e.runner.Run(ctx, m.Dir, gopathEnv, "glide", "install"); err != nil {
		return errors.Join(domain.ErrDependencySyncFailed, err)
	}
	return nil
}

func (e *glideExecutor) Build(ctx context.Context, m *domain.Manifest, spec domain.PackageSpec) error {
	return e.goInstall(ctx, m, spec, gopathEnv)
}

// gbExecutor builds gb-style workspaces (src/ layout). gb always
// builds the whole workspace; the spec is accepted for interface
// parity but the tool ignores it.
type gbExecutor struct {
	base
}

func (e *gbExecutor) ResolvePackageSpec(m *domain.Manifest, override string) (domain.PackageSpec, bool) {
	return e.resolveSpec(m, override)
}

func (e *gbExecutor) PrepareDependencies(ctx context.Context, m *domain.Manifest) error {
	if m.SkipDependencySync {
		return nil
	}
	if err := e.runner.Run(ctx, m.Dir, gopathEnv, "gb", "vendor", "restore"); err != nil {
		return errors.Join(domain.ErrDependencySyncFailed, err)
	}
	return nil
}

func (e *gbExecutor) Build(ctx context.Context, m *domain.Manifest, _ domain.PackageSpec) error {
	args := []string{"build", "-tags", e.flags.Tag}
	if ld := e.flags.ldflags(); ld != "" {
		args = append(args, "-ldflags", ld)
	}

	if err := e.runner.Run(ctx, m.Dir, gopathEnv, "gb", args...); err != nil {
		return errors.Join(domain.ErrBuildFailed, err)
	}
	return nil
}
