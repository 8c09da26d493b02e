// Package cache implements the signature-gated build cache store.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/stackmill/gopack/internal/core/domain"
	"github.com/stackmill/gopack/internal/core/ports"
)

var _ ports.CacheStore = (*Store)(nil)

// Cache root layout.
const (
	signatureFile = "signature"
	checksumsFile = "checksums.json"
	payloadDir    = "payload"
)

// saveParallelism bounds concurrent directory archiving. The build
// itself stays sequential; this only overlaps I/O inside one save.
const saveParallelism = 4

// Store persists named directories under a cache root. The root is
// single-writer: concurrent builds sharing it are undefined behavior.
type Store struct {
	root   string
	logger ports.Logger
}

// NewStore creates a cache store rooted at root.
func NewStore(root string, logger ports.Logger) *Store {
	return &Store{root: filepath.Clean(root), logger: logger}
}

// ReadSignature returns the persisted signature, or the empty signature
// when none exists. Read errors degrade to an absent signature.
func (s *Store) ReadSignature() (domain.Signature, error) {
	data, err := os.ReadFile(filepath.Join(s.root, signatureFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn(fmt.Sprintf("cache signature unreadable, treating cache as empty: %v", err))
		}
		return "", nil
	}
	return domain.Signature(strings.TrimSpace(string(data))), nil
}

// Restore copies cached directories into buildDir. Only a CacheValid
// state restores anything; CacheNewSignature additionally drops the
// stale payload so nothing from the old toolchain survives. Corrupt or
// missing entries are skipped with a warning, never an error.
func (s *Store) Restore(buildDir string, state domain.CacheState, set domain.CacheDirectorySet) ([]string, error) {
	switch state {
	case domain.CacheDisabled, domain.CacheEmpty:
		return nil, nil
	case domain.CacheNewSignature:
		if err := s.Clear(); err != nil {
			s.logger.Warn(fmt.Sprintf("failed to drop invalidated cache: %v", err))
		}
		return nil, nil
	case domain.CacheValid:
	}

	sums := s.readChecksums()

	var restored []string
	for _, rel := range set {
		src := filepath.Join(s.root, payloadDir, entryKey(rel))
		if _, err := os.Stat(src); err != nil {
			continue
		}

		sum, err := hashDir(src)
		if err != nil || sums[entryKey(rel)] != sum {
			s.logger.Warn(fmt.Sprintf("cache entry %s failed verification, skipping", rel))
			continue
		}

		dst := filepath.Join(buildDir, rel)
		if err := copyDir(src, dst); err != nil {
			s.logger.Warn(fmt.Sprintf("failed to restore %s: %v", rel, err))
			continue
		}
		restored = append(restored, rel)
	}
	return restored, nil
}

// Save clears prior cache contents, archives the directory set and
// records sig. The signature is written last so an interrupted save
// never leaves a signature pointing at a missing payload.
func (s *Store) Save(buildDir string, sig domain.Signature, set domain.CacheDirectorySet) error {
	if err := s.Clear(); err != nil {
		return zerr.Wrap(err, "failed to clear cache before save")
	}
	if err := os.MkdirAll(filepath.Join(s.root, payloadDir), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create cache payload directory")
	}

	var (
		mu   sync.Mutex
		sums = make(map[string]string)
	)

	g := new(errgroup.Group)
	g.SetLimit(saveParallelism)
	for _, rel := range set {
		g.Go(func() error {
			src := filepath.Join(buildDir, rel)
			if _, err := os.Stat(src); err != nil {
				// Nothing produced for this entry; not an error.
				return nil
			}

			dst := filepath.Join(s.root, payloadDir, entryKey(rel))
			if err := copyDir(src, dst); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to archive directory"), "dir", rel)
			}

			sum, err := hashDir(dst)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to checksum archived directory"), "dir", rel)
			}

			mu.Lock()
			sums[entryKey(rel)] = sum
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.writeChecksums(sums); err != nil {
		return err
	}
	return s.WriteSignature(sig)
}

// WriteSignature persists sig at the cache root.
func (s *Store) WriteSignature(sig domain.Signature) error {
	if err := os.MkdirAll(s.root, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create cache root")
	}
	if err := os.WriteFile(filepath.Join(s.root, signatureFile), []byte(sig), 0o644); err != nil { //nolint:gosec // signature is not sensitive
		return zerr.Wrap(err, "failed to write cache signature")
	}
	return nil
}

// Clear removes the signature first, then the payload, so a partially
// cleared root still classifies as empty rather than corrupt.
func (s *Store) Clear() error {
	if err := os.Remove(filepath.Join(s.root, signatureFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to remove cache signature")
	}
	if err := os.RemoveAll(filepath.Join(s.root, payloadDir)); err != nil {
		return zerr.Wrap(err, "failed to remove cache payload")
	}
	if err := os.Remove(filepath.Join(s.root, checksumsFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to remove cache checksums")
	}
	return nil
}

func (s *Store) readChecksums() map[string]string {
	sums := make(map[string]string)
	data, err := os.ReadFile(filepath.Join(s.root, checksumsFile))
	if err != nil {
		return sums
	}
	if err := json.Unmarshal(data, &sums); err != nil {
		s.logger.Warn(fmt.Sprintf("cache checksums unreadable: %v", err))
		return map[string]string{}
	}
	return sums
}

func (s *Store) writeChecksums(sums map[string]string) error {
	data, err := json.MarshalIndent(sums, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal cache checksums")
	}
	if err := os.WriteFile(filepath.Join(s.root, checksumsFile), data, 0o644); err != nil { //nolint:gosec // checksums are not sensitive
		return zerr.Wrap(err, "failed to write cache checksums")
	}
	return nil
}

// entryKey flattens a relative directory path into a single payload
// entry name.
func entryKey(rel string) string {
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "__")
}
