package ports

import "github.com/stackmill/gopack/internal/core/domain"

// CacheStore persists and restores named directories under a cache
// root, gated by the cache signature. All operations are best-effort
// from the build's point of view: a failed restore degrades to an
// empty cache, it never fails the build.
//
// The cache root is single-writer. Concurrent builds sharing one cache
// root are undefined behavior; the store provides no locking.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache_store.go -destination=mocks/mock_cache_store.go -package=mocks
type CacheStore interface {
	// ReadSignature returns the persisted signature, or the empty
	// signature when none exists.
	ReadSignature() (domain.Signature, error)

	// Restore copies cached directories into buildDir according to the
	// cache state: everything for CacheValid, nothing otherwise. A
	// CacheNewSignature state additionally clears the stale payload.
	// It returns the relative paths actually restored.
	Restore(buildDir string, state domain.CacheState, set domain.CacheDirectorySet) ([]string, error)

	// Save clears prior cache contents, archives the directory set from
	// buildDir and records sig. The payload is written before the
	// signature so an interrupted save never leaves a signature
	// pointing at a missing payload.
	Save(buildDir string, sig domain.Signature, set domain.CacheDirectorySet) error

	// Clear removes all cached payloads and the signature.
	Clear() error
}
