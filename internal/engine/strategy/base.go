package strategy

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/stackmill/gopack/internal/core/domain"
	"github.com/stackmill/gopack/internal/core/ports"
)

// base holds the collaborators and flags shared by all executors.
type base struct {
	runner ports.CommandRunner
	logger ports.Logger
	flags  BuildFlags
}

// resolveSpec applies the shared resolution priority using the
// manifest's tool-native install directive and the main packages the
// loader found in the tree.
func (b base) resolveSpec(m *domain.Manifest, override string) (domain.PackageSpec, bool) {
	return domain.ResolvePackageSpec(override, m.InstallTargets, m.DetectedMains)
}

// goInstall runs "go install" for the spec with the shared flags.
func (b base) goInstall(ctx context.Context, m *domain.Manifest, spec domain.PackageSpec, extraEnv []string) error {
	args := []string{"install", "-v", "-tags", b.flags.Tag}
	if ld := b.flags.ldflags(); ld != "" {
		args = append(args, "-ldflags", ld)
	}
	args = append(args, spec...)

	if err := b.runner.Run(ctx, m.Dir, extraEnv, "go", args...); err != nil {
		return errors.Join(domain.ErrBuildFailed, err)
	}
	return nil
}

// moduleCacheEnv returns the GOMODCACHE override, empty when the
// default location applies.
func (b base) moduleCacheEnv(m *domain.Manifest) []string {
	if b.flags.ModuleCacheDir == "" {
		return nil
	}
	return []string{"GOMODCACHE=" + filepath.Join(m.Dir, b.flags.ModuleCacheDir)}
}
