package fs

import (
	"os"

	"go.trai.ch/zerr"
)

// EnsureExecutable makes the file at path executable. Hook scripts are
// frequently committed without the executable bit; this self-heals the
// permission instead of failing the build.
func EnsureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat hook script"), "path", path)
	}
	if info.Mode()&0o111 != 0 {
		return nil
	}
	if err := os.Chmod(path, info.Mode()|0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to make hook script executable"), "path", path)
	}
	return nil
}
