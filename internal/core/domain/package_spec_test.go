package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackmill/gopack/internal/core/domain"
)

func TestResolvePackageSpec_OverrideWins(t *testing.T) {
	spec, fellBack := domain.ResolvePackageSpec(
		"./cmd/web ./cmd/worker",
		[]string{"./configured"},
		[]string{"./detected"},
	)
	assert.False(t, fellBack)
	assert.Equal(t, domain.PackageSpec{"./cmd/web", "./cmd/worker"}, spec)
}

func TestResolvePackageSpec_ConfiguredBeforeDetected(t *testing.T) {
	spec, fellBack := domain.ResolvePackageSpec("", []string{"./configured"}, []string{"./detected"})
	assert.False(t, fellBack)
	assert.Equal(t, domain.PackageSpec{"./configured"}, spec)
}

func TestResolvePackageSpec_DetectedFallback(t *testing.T) {
	spec, fellBack := domain.ResolvePackageSpec("", nil, []string{"./cmd/a", "./cmd/b"})
	assert.False(t, fellBack)
	assert.Equal(t, domain.PackageSpec{"./cmd/a", "./cmd/b"}, spec)
}

func TestResolvePackageSpec_SentinelDefault(t *testing.T) {
	spec, fellBack := domain.ResolvePackageSpec("", nil, nil)
	assert.True(t, fellBack)
	assert.True(t, spec.IsDefault())
	assert.Equal(t, ".", spec.String())
}

func TestResolvePackageSpec_WhitespaceOverrideIgnored(t *testing.T) {
	spec, fellBack := domain.ResolvePackageSpec("   ", nil, nil)
	assert.True(t, fellBack)
	assert.True(t, spec.IsDefault())
}

func TestNewCacheDirectorySet(t *testing.T) {
	assert.Equal(t, domain.CacheDirectorySet{"bin", "pkg", "modcache"}, domain.NewCacheDirectorySet(nil))
	assert.Equal(t, domain.CacheDirectorySet{"vendor/cache", "bin"}, domain.NewCacheDirectorySet([]string{"vendor//cache", "./bin"}))
}
