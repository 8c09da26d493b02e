// Package orchestrator drives a build through its stages.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"

	"github.com/stackmill/gopack/internal/adapters/fs"
	"github.com/stackmill/gopack/internal/core/domain"
	"github.com/stackmill/gopack/internal/core/ports"
	"github.com/stackmill/gopack/internal/engine/strategy"
)

// Stage names, recorded to the report in execution order. Each name is
// recorded before the stage's work runs, so a failed build retains the
// last-attempted stage.
const (
	StageInit              = "init"
	StageBinariesInstalled = "binaries-installed"
	StageCacheRestored     = "cache-restored"
	StageDependenciesBuilt = "dependencies-built"
	StageCacheSaved        = "cache-saved"
	StagePruned            = "pruned"
	StageSummarized        = "summarized"
	StageFinished          = "finished"
)

// Options are the build options resolved from configuration, passed
// down once at construction. The orchestrator reads no environment.
type Options struct {
	PackageSpecOverride string
	DisableCache        bool
	CacheDirs           []string
	ModuleCacheDir      string
	SkipFetch           bool
	LinkSymbol          string
	LinkValue           string
	Stack               string

	// ToolDir is where runtime and tool binaries are installed.
	ToolDir string
}

// Orchestrator runs the sequential build state machine. Stages never
// branch back; any stage error takes the Failed path, which still
// persists the report before the caller exits non-zero.
type Orchestrator struct {
	loader    ports.ManifestLoader
	installer ports.Installer
	cache     ports.CacheStore
	runner    ports.CommandRunner
	reports   ports.ReportStore
	logger    ports.Logger
	metrics   ports.Metrics
	opts      Options
}

// New creates an orchestrator from its collaborators.
func New(
	loader ports.ManifestLoader,
	installer ports.Installer,
	cache ports.CacheStore,
	runner ports.CommandRunner,
	reports ports.ReportStore,
	logger ports.Logger,
	metrics ports.Metrics,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		loader:    loader,
		installer: installer,
		cache:     cache,
		runner:    runner,
		reports:   reports,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
}

// Build runs every stage for the project in buildDir. The returned
// report is always non-nil and has been persisted, on the failure path
// included. A non-nil error means the build took the Failed path.
func (o *Orchestrator) Build(ctx context.Context, buildDir string) (*domain.Report, error) {
	report := domain.NewReport(buildDir)

	err := o.run(ctx, buildDir, report)
	if err != nil {
		report.Fail(o.diagnose(err))
		o.logger.Error(err)
		o.metrics.Count("build.failed")
	} else {
		report.Finish()
		o.metrics.Count("build.finished")
	}

	if perr := o.reports.Put(report); perr != nil {
		o.logger.Warn(fmt.Sprintf("could not persist build report: %v", perr))
	}
	return report, err
}

func (o *Orchestrator) run(ctx context.Context, buildDir string, report *domain.Report) error {
	// Init: load the manifest and pick the strategy.
	report.RecordStage(StageInit)
	m, err := o.loader.Load(buildDir)
	if err != nil {
		return err
	}
	strat, err := o.selectStrategy(m, report)
	if err != nil {
		return err
	}
	report.Strategy = strat.String()
	o.metrics.Count("strategy." + strat.String())
	o.logger.Info("using " + strat.String())

	// BinariesInstalled: the runtime, then the tool the strategy needs.
	report.RecordStage(StageBinariesInstalled)
	goVersion, err := o.installer.Install(ctx, "go", m.GoVersion, o.opts.ToolDir)
	if err != nil {
		return errors.Join(domain.ErrInstallFailed, err)
	}
	o.logger.Info("installed go " + goVersion)
	toolVersion := ""
	if tool := toolBinary(strat); tool != "" {
		toolVersion, err = o.installer.Install(ctx, tool, "", o.opts.ToolDir)
		if err != nil {
			return errors.Join(domain.ErrInstallFailed, err)
		}
		o.logger.Info(fmt.Sprintf("installed %s %s", tool, toolVersion))
	}

	// CacheRestored: classify against the stored signature, restore.
	report.RecordStage(StageCacheRestored)
	set := domain.NewCacheDirectorySet(o.opts.CacheDirs)
	current := domain.ComputeSignature(goVersion, toolVersion, o.opts.Stack)
	stored, err := o.cache.ReadSignature()
	if err != nil {
		report.RecordWarning(fmt.Sprintf("could not read cache signature: %v", err))
		stored = ""
	}
	state := domain.ClassifyCache(current, stored, o.opts.DisableCache)
	report.CacheState = state.String()
	o.metrics.Count("cache." + state.String())
	restored, err := o.cache.Restore(buildDir, state, set)
	if err != nil {
		report.RecordWarning(fmt.Sprintf("cache restore failed, building cold: %v", err))
	} else {
		o.logger.Info(fmt.Sprintf("cache %s, restored %d directories", state, len(restored)))
	}

	// DependenciesBuilt: resolve the spec, sync, hooks around the build.
	report.RecordStage(StageDependenciesBuilt)
	if o.opts.SkipFetch && !m.SkipDependencySync {
		clone := *m
		clone.SkipDependencySync = true
		m = &clone
	}
	exec, err := strategy.For(strat, strategy.Deps{Runner: o.runner, Logger: o.logger}, strategy.BuildFlags{
		LinkSymbol:     o.opts.LinkSymbol,
		LinkValue:      o.opts.LinkValue,
		ModuleCacheDir: o.opts.ModuleCacheDir,
	})
	if err != nil {
		return err
	}
	spec, fellBack := exec.ResolvePackageSpec(m, o.opts.PackageSpecOverride)
	if fellBack {
		report.RecordWarning("no install targets configured, defaulting to " + domain.DefaultPackageSpec)
	}
	if m.HasPreCompileHook {
		if err := o.runHook(ctx, buildDir, domain.PreCompileHook); err != nil {
			return err
		}
	}
	buildStart := time.Now()
	if err := exec.PrepareDependencies(ctx, m); err != nil {
		return err
	}
	if err := exec.Build(ctx, m, spec); err != nil {
		return err
	}
	o.metrics.Timing("build.duration", time.Since(buildStart))
	if m.HasPostCompileHook {
		if err := o.runHook(ctx, buildDir, domain.PostCompileHook); err != nil {
			return err
		}
	}

	// CacheSaved: archive the directory set under the new signature.
	report.RecordStage(StageCacheSaved)
	if state == domain.CacheDisabled {
		o.logger.Info("cache disabled, skipping save")
	} else if err := o.cache.Save(buildDir, current, set); err != nil {
		report.RecordWarning(fmt.Sprintf("cache save failed: %v", err))
	}

	// Pruned: drop cache-only directories from the artifact.
	report.RecordStage(StagePruned)
	o.prune(buildDir, set, report)

	// Summarized: surface collected warnings and artifact size.
	report.RecordStage(StageSummarized)
	for _, w := range report.Warnings {
		o.logger.Warn(w)
	}
	if size, err := dirSize(filepath.Join(buildDir, "bin")); err == nil {
		o.metrics.Size("artifact.bin", size)
	}
	o.logger.Info(fmt.Sprintf("build complete: strategy=%s cache=%s warnings=%d",
		strat, state, len(report.Warnings)))

	report.RecordStage(StageFinished)
	return nil
}

// selectStrategy applies marker detection, falling back to the module
// system for a marker-less directory that still contains Go sources.
// A directory with neither is not buildable.
func (o *Orchestrator) selectStrategy(m *domain.Manifest, report *domain.Report) (domain.ToolStrategy, error) {
	strat, err := domain.DetectStrategy(m)
	if err == nil {
		return strat, nil
	}
	if !errors.Is(err, domain.ErrNoStrategy) {
		return 0, err
	}
	if m.HasGoSources {
		report.RecordWarning("no dependency-management configuration found, assuming Go modules")
		return domain.StrategyModules, nil
	}
	return 0, zerr.With(zerr.Wrap(domain.ErrNoBuildableSource, ""), "dir", m.Dir)
}

// runHook executes a hook script from the build directory, healing a
// missing executable bit first. Hook failure is a build failure.
func (o *Orchestrator) runHook(ctx context.Context, buildDir, rel string) error {
	path := filepath.Join(buildDir, rel)
	if err := fs.EnsureExecutable(path); err != nil {
		return errors.Join(domain.ErrHookFailed, err)
	}
	o.logger.Info("running " + rel)
	if err := o.runner.Run(ctx, buildDir, nil, path); err != nil {
		return errors.Join(domain.ErrHookFailed, zerr.With(err, "hook", rel))
	}
	return nil
}

// prune removes cached directories from the artifact. Compiled
// binaries stay; everything else in the set only exists to be carried
// between builds. Removal is best-effort.
func (o *Orchestrator) prune(buildDir string, set domain.CacheDirectorySet, report *domain.Report) {
	for _, dir := range set {
		if dir == "bin" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(buildDir, dir)); err != nil {
			report.RecordWarning(fmt.Sprintf("could not prune %s: %v", dir, err))
		}
	}
	if o.opts.ModuleCacheDir != "" && o.opts.ModuleCacheDir != "bin" {
		if err := os.RemoveAll(filepath.Join(buildDir, o.opts.ModuleCacheDir)); err != nil {
			report.RecordWarning(fmt.Sprintf("could not prune %s: %v", o.opts.ModuleCacheDir, err))
		}
	}
}

// toolBinary names the separate tool a strategy installs, "" when the
// runtime alone suffices.
func toolBinary(s domain.ToolStrategy) string {
	switch s {
	case domain.StrategyDep:
		return "dep"
	case domain.StrategyGodep:
		return "godep"
	case domain.StrategyGovendor:
		return "govendor"
	case domain.StrategyGlide:
		return "glide"
	case domain.StrategyGB:
		return "gb"
	default:
		return ""
	}
}

func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	return total, err
}
