package ports

import "context"

// CommandRunner executes external tool commands synchronously. Output
// is streamed to the logger as it is produced; the tail of the most
// recent command's combined output is retained for failure diagnostics.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes name with args in dir, with env appended to the
	// process environment. It blocks until the command exits and
	// returns an error for a non-zero exit.
	Run(ctx context.Context, dir string, env []string, name string, args ...string) error

	// LastOutput returns the retained tail of the last Run's combined
	// output, for scanning against known failure signatures.
	LastOutput() string
}
