package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stackmill/gopack/internal/core/domain"
	"github.com/stackmill/gopack/internal/core/ports/mocks"
)

type fixture struct {
	orch      *Orchestrator
	loader    *mocks.MockManifestLoader
	installer *mocks.MockInstaller
	cache     *mocks.MockCacheStore
	runner    *mocks.MockCommandRunner
	reports   *mocks.MockReportStore
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		loader:    mocks.NewMockManifestLoader(ctrl),
		installer: mocks.NewMockInstaller(ctrl),
		cache:     mocks.NewMockCacheStore(ctrl),
		runner:    mocks.NewMockCommandRunner(ctrl),
		reports:   mocks.NewMockReportStore(ctrl),
	}
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()
	meter := mocks.NewMockMetrics(ctrl)
	meter.EXPECT().Count(gomock.Any()).AnyTimes()
	meter.EXPECT().Timing(gomock.Any(), gomock.Any()).AnyTimes()
	meter.EXPECT().Size(gomock.Any(), gomock.Any()).AnyTimes()

	if opts.Stack == "" {
		opts.Stack = "stackmill-24"
	}
	f.orch = New(f.loader, f.installer, f.cache, f.runner, f.reports, logger, meter, opts)
	return f
}

func modulesManifest(dir string) *domain.Manifest {
	return &domain.Manifest{Dir: dir, HasGoMod: true, HasGoSources: true, GoVersion: "1.22"}
}

func TestBuild_ModulesHappyPath(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{})
	sig := domain.ComputeSignature("1.22.1", "", "stackmill-24")

	f.loader.EXPECT().Load(dir).Return(modulesManifest(dir), nil)
	f.installer.EXPECT().Install(gomock.Any(), "go", "1.22", gomock.Any()).Return("1.22.1", nil)
	f.cache.EXPECT().ReadSignature().Return(sig, nil)
	f.cache.EXPECT().
		Restore(dir, domain.CacheValid, gomock.Any()).
		Return([]string{"bin", "pkg"}, nil)
	f.runner.EXPECT().
		Run(gomock.Any(), dir, gomock.Any(), "go", "mod", "download").
		Return(nil)
	f.runner.EXPECT().
		Run(gomock.Any(), dir, gomock.Any(), "go", "install", "-v", "-tags", "heroku", ".").
		Return(nil)
	f.cache.EXPECT().Save(dir, sig, gomock.Any()).Return(nil)
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.orch.Build(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, report.Failed)
	assert.Equal(t, "go-modules", report.Strategy)
	assert.Equal(t, "valid", report.CacheState)
	assert.Equal(t, []string{
		StageInit,
		StageBinariesInstalled,
		StageCacheRestored,
		StageDependenciesBuilt,
		StageCacheSaved,
		StagePruned,
		StageSummarized,
		StageFinished,
	}, report.Stages)
	assert.False(t, report.FinishedAt.IsZero())
}

func TestBuild_FallsBackToModulesForBareSources(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{})

	f.loader.EXPECT().Load(dir).Return(&domain.Manifest{Dir: dir, HasGoSources: true}, nil)
	f.installer.EXPECT().Install(gomock.Any(), "go", "", gomock.Any()).Return("1.22.1", nil)
	f.cache.EXPECT().ReadSignature().Return(domain.Signature(""), nil)
	f.cache.EXPECT().Restore(dir, domain.CacheEmpty, gomock.Any()).Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), dir, gomock.Any(), "go", "mod", "download").Return(nil)
	f.runner.EXPECT().
		Run(gomock.Any(), dir, gomock.Any(), "go", "install", "-v", "-tags", "heroku", ".").
		Return(nil)
	f.cache.EXPECT().Save(dir, gomock.Any(), gomock.Any()).Return(nil)
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.orch.Build(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "go-modules", report.Strategy)
	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], "assuming Go modules")
}

func TestBuild_NoSourcesFailsAtInit(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{})

	f.loader.EXPECT().Load(dir).Return(&domain.Manifest{Dir: dir}, nil)
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.orch.Build(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoBuildableSource))
	assert.True(t, report.Failed)
	assert.Equal(t, []string{StageInit}, report.Stages)
}

func TestBuild_FailureRetainsLastStageAndPersists(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{})

	f.loader.EXPECT().Load(dir).Return(modulesManifest(dir), nil)
	f.installer.EXPECT().Install(gomock.Any(), "go", "1.22", gomock.Any()).Return("1.22.1", nil)
	f.cache.EXPECT().ReadSignature().Return(domain.Signature(""), nil)
	f.cache.EXPECT().Restore(dir, domain.CacheEmpty, gomock.Any()).Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), dir, gomock.Any(), "go", "mod", "download").Return(nil)
	f.runner.EXPECT().
		Run(gomock.Any(), dir, gomock.Any(), "go", "install", "-v", "-tags", "heroku", ".").
		Return(errors.New("exit status 2"))
	f.runner.EXPECT().LastOutput().Return("lots of compiler noise")
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.orch.Build(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuildFailed))
	assert.True(t, report.Failed)
	assert.Equal(t, StageDependenciesBuilt, report.LastStage())
	assert.Equal(t, genericBuildFailure, report.Failure)
}

func TestBuild_DiagnosesKnownFailureSignature(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{})

	f.loader.EXPECT().Load(dir).Return(modulesManifest(dir), nil)
	f.installer.EXPECT().Install(gomock.Any(), "go", "1.22", gomock.Any()).Return("1.22.1", nil)
	f.cache.EXPECT().ReadSignature().Return(domain.Signature(""), nil)
	f.cache.EXPECT().Restore(dir, domain.CacheEmpty, gomock.Any()).Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), dir, gomock.Any(), "go", "mod", "download").Return(nil)
	f.runner.EXPECT().
		Run(gomock.Any(), dir, gomock.Any(), "go", "install", "-v", "-tags", "heroku", ".").
		Return(errors.New("exit status 1"))
	f.runner.EXPECT().
		LastOutput().
		Return("go: inconsistent vendoring in /app:\n\tgithub.com/x/y: is explicitly required")
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.orch.Build(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, report.Failure, "go mod vendor")
}

func TestBuild_NewSignatureInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{})
	current := domain.ComputeSignature("1.22.1", "", "stackmill-24")
	stored := domain.ComputeSignature("1.21.0", "", "stackmill-24")

	f.loader.EXPECT().Load(dir).Return(modulesManifest(dir), nil)
	f.installer.EXPECT().Install(gomock.Any(), "go", "1.22", gomock.Any()).Return("1.22.1", nil)
	f.cache.EXPECT().ReadSignature().Return(stored, nil)
	f.cache.EXPECT().Restore(dir, domain.CacheNewSignature, gomock.Any()).Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), dir, gomock.Any(), "go", "mod", "download").Return(nil)
	f.runner.EXPECT().
		Run(gomock.Any(), dir, gomock.Any(), "go", "install", "-v", "-tags", "heroku", ".").
		Return(nil)
	f.cache.EXPECT().Save(dir, current, gomock.Any()).Return(nil)
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.orch.Build(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "new-signature", report.CacheState)
}

func TestBuild_DisabledCacheNeverSaves(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{DisableCache: true})

	f.loader.EXPECT().Load(dir).Return(modulesManifest(dir), nil)
	f.installer.EXPECT().Install(gomock.Any(), "go", "1.22", gomock.Any()).Return("1.22.1", nil)
	f.cache.EXPECT().ReadSignature().Return(domain.Signature(""), nil)
	f.cache.EXPECT().Restore(dir, domain.CacheDisabled, gomock.Any()).Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), dir, gomock.Any(), "go", "mod", "download").Return(nil)
	f.runner.EXPECT().
		Run(gomock.Any(), dir, gomock.Any(), "go", "install", "-v", "-tags", "heroku", ".").
		Return(nil)
	// No Save expectation: saving a disabled cache would fail the test.
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.orch.Build(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "disabled", report.CacheState)
}

func TestBuild_LegacyToolInstalled(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{})
	m := &domain.Manifest{Dir: dir, HasGopkgLock: true, HasGoSources: true}

	f.loader.EXPECT().Load(dir).Return(m, nil)
	f.installer.EXPECT().Install(gomock.Any(), "go", "", gomock.Any()).Return("1.12.17", nil)
	f.installer.EXPECT().Install(gomock.Any(), "dep", "", gomock.Any()).Return("0.5.4", nil)
	f.cache.EXPECT().ReadSignature().Return(domain.Signature(""), nil)
	f.cache.EXPECT().Restore(dir, domain.CacheEmpty, gomock.Any()).Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), dir, gomock.Any(), "dep", "ensure").Return(nil)
	f.runner.EXPECT().
		Run(gomock.Any(), dir, gomock.Any(), "go", "install", "-v", "-tags", "heroku", ".").
		Return(nil)
	f.cache.EXPECT().
		Save(dir, domain.ComputeSignature("1.12.17", "0.5.4", "stackmill-24"), gomock.Any()).
		Return(nil)
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.orch.Build(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "dep", report.Strategy)
}

func TestBuild_PreCompileHookHealedAndFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{})
	hook := filepath.Join(dir, domain.PreCompileHook)
	require.NoError(t, os.MkdirAll(filepath.Dir(hook), 0o755))
	require.NoError(t, os.WriteFile(hook, []byte("#!/bin/sh\nexit 1\n"), 0o644))
	m := modulesManifest(dir)
	m.HasPreCompileHook = true

	f.loader.EXPECT().Load(dir).Return(m, nil)
	f.installer.EXPECT().Install(gomock.Any(), "go", "1.22", gomock.Any()).Return("1.22.1", nil)
	f.cache.EXPECT().ReadSignature().Return(domain.Signature(""), nil)
	f.cache.EXPECT().Restore(dir, domain.CacheEmpty, gomock.Any()).Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), dir, gomock.Any(), hook).Return(errors.New("exit status 1"))
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.orch.Build(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrHookFailed))
	assert.True(t, report.Failed)

	info, err := os.Stat(hook)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111, "hook script should have been made executable")
}

func TestBuild_SkipFetchSkipsDependencySync(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{SkipFetch: true})

	f.loader.EXPECT().Load(dir).Return(modulesManifest(dir), nil)
	f.installer.EXPECT().Install(gomock.Any(), "go", "1.22", gomock.Any()).Return("1.22.1", nil)
	f.cache.EXPECT().ReadSignature().Return(domain.Signature(""), nil)
	f.cache.EXPECT().Restore(dir, domain.CacheEmpty, gomock.Any()).Return(nil, nil)
	// Only the install command: "go mod download" must not run.
	f.runner.EXPECT().
		Run(gomock.Any(), dir, gomock.Any(), "go", "install", "-v", "-tags", "heroku", ".").
		Return(nil)
	f.cache.EXPECT().Save(dir, gomock.Any(), gomock.Any()).Return(nil)
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	_, err := f.orch.Build(context.Background(), dir)
	require.NoError(t, err)
}

func TestBuild_PruneRemovesCacheOnlyDirs(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{})
	for _, d := range []string{"bin", "pkg", "modcache"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, d), 0o755))
	}

	f.loader.EXPECT().Load(dir).Return(modulesManifest(dir), nil)
	f.installer.EXPECT().Install(gomock.Any(), "go", "1.22", gomock.Any()).Return("1.22.1", nil)
	f.cache.EXPECT().ReadSignature().Return(domain.Signature(""), nil)
	f.cache.EXPECT().Restore(dir, domain.CacheEmpty, gomock.Any()).Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), dir, gomock.Any(), "go", "mod", "download").Return(nil)
	f.runner.EXPECT().
		Run(gomock.Any(), dir, gomock.Any(), "go", "install", "-v", "-tags", "heroku", ".").
		Return(nil)
	f.cache.EXPECT().Save(dir, gomock.Any(), gomock.Any()).Return(nil)
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	_, err := f.orch.Build(context.Background(), dir)
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(dir, "bin"))
	assert.NoDirExists(t, filepath.Join(dir, "pkg"))
	assert.NoDirExists(t, filepath.Join(dir, "modcache"))
}

func TestBuild_InterruptStillPersistsFailedReport(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.loader.EXPECT().Load(dir).Return(modulesManifest(dir), nil)
	f.installer.EXPECT().
		Install(gomock.Any(), "go", "1.22", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _, _ string) (string, error) {
			return "", ctx.Err()
		})
	f.reports.EXPECT().Put(gomock.Any()).Return(nil)

	report, err := f.orch.Build(ctx, dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, report.Failed)
	assert.Equal(t, StageBinariesInstalled, report.LastStage())
}

func TestBuild_ReportPersistFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Options{})

	f.loader.EXPECT().Load(dir).Return(&domain.Manifest{Dir: dir}, nil)
	f.reports.EXPECT().Put(gomock.Any()).Return(errors.New("disk full"))

	report, err := f.orch.Build(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoBuildableSource))
	assert.True(t, report.Failed)
}
