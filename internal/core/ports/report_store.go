package ports

import "github.com/stackmill/gopack/internal/core/domain"

// ReportStore persists the build report so failure diagnostics survive
// the process. The report is written on every outcome, including the
// error path.
//
//go:generate go run go.uber.org/mock/mockgen -source=report_store.go -destination=mocks/mock_report_store.go -package=mocks
type ReportStore interface {
	// Put stores the report, replacing any previous one.
	Put(report *domain.Report) error

	// Get retrieves the most recent report. Returns nil, nil if none
	// has been stored.
	Get() (*domain.Report, error)
}
