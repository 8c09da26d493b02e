package ports

import "time"

// Metrics is the fire-and-forget measurement sink. Emission never
// affects control flow; implementations swallow their own errors.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	Count(name string)
	Timing(name string, d time.Duration)
	Size(name string, bytes int64)
}
