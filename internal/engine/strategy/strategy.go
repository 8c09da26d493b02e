// Package strategy implements the per-tool build executors.
package strategy

import (
	"context"
	"fmt"

	"go.trai.ch/zerr"

	"github.com/stackmill/gopack/internal/core/domain"
	"github.com/stackmill/gopack/internal/core/ports"
)

// DefaultBuildTag is always passed to the underlying build.
const DefaultBuildTag = "heroku"

// BuildFlags carries the cross-strategy build options.
type BuildFlags struct {
	// Tag is the build tag passed to every build.
	Tag string

	// LinkSymbol and LinkValue form the linker-injected pair. Both must
	// be set to take effect; a partial pair is ignored, not an error.
	LinkSymbol string
	LinkValue  string

	// ModuleCacheDir selects an alternate module-cache location,
	// relative to the build directory.
	ModuleCacheDir string
}

// ldflags renders the -ldflags value, or "" when the pair is partial.
func (f BuildFlags) ldflags() string {
	if f.LinkSymbol == "" || f.LinkValue == "" {
		return ""
	}
	return fmt.Sprintf("-X %s=%s", f.LinkSymbol, f.LinkValue)
}

// Executor is a build-tool strategy: it resolves what to build,
// optionally syncs dependencies and invokes the build.
type Executor interface {
	// ResolvePackageSpec picks install targets in priority order:
	// override, tool-native directive, auto-detected mains, sentinel
	// default. fellBack reports the sentinel was used.
	ResolvePackageSpec(m *domain.Manifest, override string) (spec domain.PackageSpec, fellBack bool)

	// PrepareDependencies runs the strategy's dependency-sync step.
	// It honors the manifest's sync opt-out.
	PrepareDependencies(ctx context.Context, m *domain.Manifest) error

	// Build invokes the underlying tool for the resolved spec.
	Build(ctx context.Context, m *domain.Manifest, spec domain.PackageSpec) error
}

// Deps are the collaborators every executor shares.
type Deps struct {
	Runner ports.CommandRunner
	Logger ports.Logger
}

// For returns the executor for the strategy. The set is closed: an
// out-of-range value is a programming error surfaced as
// ErrUnknownStrategy.
func For(s domain.ToolStrategy, deps Deps, flags BuildFlags) (Executor, error) {
	if flags.Tag == "" {
		flags.Tag = DefaultBuildTag
	}
	base := base{runner: deps.Runner, logger: deps.Logger, flags: flags}

	switch s {
	case domain.StrategyModules:
		return &modulesExecutor{base: base}, nil
	case domain.StrategyDep:
		return &depExecutor{base: base}, nil
	case domain.StrategyGodep:
		return &godepExecutor{base: base}, nil
	case domain.StrategyGovendor:
		return &govendorExecutor{base: base}, nil
	case domain.StrategyGlide:
		return &glideExecutor{base: base}, nil
	case domain.StrategyGB:
		return &gbExecutor{base: base}, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownStrategy, ""), "strategy", int(s))
	}
}
