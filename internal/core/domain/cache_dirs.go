package domain

import (
	"os"
	"path/filepath"
)

// CacheDirectorySet lists the directories, relative to the build root,
// that are archived into and restored from the build cache.
type CacheDirectorySet []string

// defaultCacheDirs are the directories cached when the user does not
// override the set: compiled binaries, the package build cache and the
// module download cache.
var defaultCacheDirs = CacheDirectorySet{"bin", "pkg", "modcache"}

// NewCacheDirectorySet returns the user-overridden set when dirs is
// non-empty, the default set otherwise. Entries are cleaned so that
// equivalent spellings address the same cache payload.
func NewCacheDirectorySet(dirs []string) CacheDirectorySet {
	if len(dirs) == 0 {
		out := make(CacheDirectorySet, len(defaultCacheDirs))
		copy(out, defaultCacheDirs)
		return out
	}
	out := make(CacheDirectorySet, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, filepath.Clean(d))
	}
	return out
}

// DefaultCacheRoot returns the per-user cache root for builds that do
// not configure one explicitly.
func DefaultCacheRoot() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "gopack")
}
