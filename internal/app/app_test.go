package app

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stackmill/gopack/internal/adapters/config"
	"github.com/stackmill/gopack/internal/core/domain"
	"github.com/stackmill/gopack/internal/core/ports/mocks"
)

type stubBuilder struct {
	report *domain.Report
	err    error

	called    bool
	netrcSeen string
}

func (s *stubBuilder) Build(_ context.Context, dir string) (*domain.Report, error) {
	s.called = true
	s.netrcSeen = os.Getenv("NETRC")
	if s.report == nil {
		s.report = domain.NewReport(dir)
	}
	return s.report, s.err
}

func newApp(t *testing.T, builder Builder, cfg *config.Config) (*App, *mocks.MockManifestLoader, *mocks.MockCacheStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockManifestLoader(ctrl)
	cache := mocks.NewMockCacheStore(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	if cfg == nil {
		cfg = &config.Config{}
	}
	return New(builder, loader, cache, logger, cfg), loader, cache
}

func TestBuild_CredentialsScopedToBuild(t *testing.T) {
	t.Setenv("NETRC", "/previous/netrc")
	builder := &stubBuilder{}
	a, _, _ := newApp(t, builder, &config.Config{
		GitCredHost:     "github.com",
		GitCredUser:     "ci",
		GitCredPassword: "s3cret",
	})

	_, err := a.Build(context.Background(), t.TempDir())
	require.NoError(t, err)
	require.True(t, builder.called)

	// During the build NETRC pointed at a real file with the entry.
	require.NotEmpty(t, builder.netrcSeen)
	require.NotEqual(t, "/previous/netrc", builder.netrcSeen)

	// Released after the build: env restored, file gone.
	assert.Equal(t, "/previous/netrc", os.Getenv("NETRC"))
	_, statErr := os.Stat(builder.netrcSeen)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_CredentialsReleasedOnFailure(t *testing.T) {
	t.Setenv("NETRC", "/previous/netrc")
	builder := &stubBuilder{err: errors.New("boom")}
	a, _, _ := newApp(t, builder, &config.Config{
		GitCredHost:     "github.com",
		GitCredUser:     "ci",
		GitCredPassword: "s3cret",
	})

	_, err := a.Build(context.Background(), t.TempDir())
	require.Error(t, err)

	assert.Equal(t, "/previous/netrc", os.Getenv("NETRC"))
	_, statErr := os.Stat(builder.netrcSeen)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_NoCredentialsLeavesEnvAlone(t *testing.T) {
	t.Setenv("NETRC", "/previous/netrc")
	builder := &stubBuilder{}
	a, _, _ := newApp(t, builder, nil)

	_, err := a.Build(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/previous/netrc", builder.netrcSeen)
	assert.Equal(t, "/previous/netrc", os.Getenv("NETRC"))
}

func TestDetect_ReportsMarkerStrategy(t *testing.T) {
	a, loader, _ := newApp(t, &stubBuilder{}, nil)
	loader.EXPECT().Load("/app").Return(&domain.Manifest{Dir: "/app", HasGlideYAML: true}, nil)

	strat, err := a.Detect("/app")
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyGlide, strat)
}

func TestDetect_FallsBackForBareSources(t *testing.T) {
	a, loader, _ := newApp(t, &stubBuilder{}, nil)
	loader.EXPECT().Load("/app").Return(&domain.Manifest{Dir: "/app", HasGoSources: true}, nil)

	strat, err := a.Detect("/app")
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyModules, strat)
}

func TestDetect_NoSourcesFails(t *testing.T) {
	a, loader, _ := newApp(t, &stubBuilder{}, nil)
	loader.EXPECT().Load("/app").Return(&domain.Manifest{Dir: "/app"}, nil)

	_, err := a.Detect("/app")
	assert.True(t, errors.Is(err, domain.ErrNoStrategy))
}

func TestClean_ClearsCache(t *testing.T) {
	a, _, cache := newApp(t, &stubBuilder{}, nil)
	cache.EXPECT().Clear().Return(nil)

	assert.NoError(t, a.Clean())
}
