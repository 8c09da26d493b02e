// Package cas implements flat-file storage for build reports.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"

	"github.com/stackmill/gopack/internal/core/domain"
	"github.com/stackmill/gopack/internal/core/ports"
)

var _ ports.ReportStore = (*Store)(nil)

// Store implements ports.ReportStore using a flat JSON file. The
// report is rewritten whole on every Put so a crash mid-build still
// leaves the last persisted state readable.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a report store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Put stores the report, replacing any previous one.
func (s *Store) Put(report *domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Join(domain.ErrReportWriteFailed, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return errors.Join(domain.ErrReportWriteFailed, err)
	}

	//nolint:gosec // path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Join(domain.ErrReportWriteFailed, err)
	}
	return nil
}

// Get retrieves the most recent report. Returns nil, nil if none has
// been stored.
func (s *Store) Get() (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read build report")
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal build report")
	}
	return &report, nil
}
