package toolchain

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// untar unpacks a gzipped tarball into dest, rejecting entries that
// would escape it.
func untar(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return zerr.Wrap(err, "failed to read release archive")
	}
	defer gz.Close() //nolint:errcheck // best effort close in defer

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "failed to read release archive")
		}

		if !filepath.IsLocal(hdr.Name) {
			return zerr.With(zerr.New("archive entry escapes destination"), "entry", hdr.Name)
		}
		target := filepath.Join(dest, filepath.FromSlash(hdr.Name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, hdr.FileInfo().Mode().Perm()|0o700); err != nil {
				return zerr.Wrap(err, "failed to create directory")
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return zerr.Wrap(err, "failed to create directory")
			}
			f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, hdr.FileInfo().Mode().Perm()) //nolint:gosec // target is validated local
			if err != nil {
				return zerr.Wrap(err, "failed to create file")
			}
			if _, err := io.Copy(f, tr); err != nil { //nolint:gosec // release archives are trusted input
				_ = f.Close()
				return zerr.Wrap(err, "failed to extract file")
			}
			if err := f.Close(); err != nil {
				return zerr.Wrap(err, "failed to close extracted file")
			}
		default:
			// Symlinks and other entry types are not part of release
			// archives; skip them.
		}
	}
}
