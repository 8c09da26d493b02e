// Package shell provides the command runner adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"

	"go.trai.ch/zerr"

	"github.com/stackmill/gopack/internal/core/ports"
)

var _ ports.CommandRunner = (*Runner)(nil)

// tailLimit bounds the retained output used for failure diagnostics.
const tailLimit = 16 * 1024

// Runner implements ports.CommandRunner using os/exec. Commands run
// synchronously with no timeout of their own; cancellation comes from
// the context.
type Runner struct {
	logger ports.Logger

	mu   sync.Mutex
	tail bytes.Buffer
}

// NewRunner creates a new Runner streaming command output to logger.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes name with args in dir. env entries are appended to the
// process environment, overriding inherited variables of the same name.
func (r *Runner) Run(ctx context.Context, dir string, env []string, name string, args ...string) error {
	r.mu.Lock()
	r.tail.Reset()
	r.mu.Unlock()

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // tool invocation built from detected strategy
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = &logWriter{runner: r, level: "info"}
	cmd.Stderr = &logWriter{runner: r, level: "error"}

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		cmdErr := zerr.Wrap(err, "command failed")
		cmdErr = zerr.With(cmdErr, "command", name)
		return zerr.With(cmdErr, "exit_code", exitCode)
	}
	return nil
}

// LastOutput returns the retained tail of the last Run's combined
// output.
func (r *Runner) LastOutput() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tail.String()
}

func (r *Runner) record(p []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tail.Write(p)
	if r.tail.Len() > tailLimit {
		trimmed := r.tail.Bytes()[r.tail.Len()-tailLimit:]
		rest := make([]byte, len(trimmed))
		copy(rest, trimmed)
		r.tail.Reset()
		r.tail.Write(rest)
	}
}

// logWriter forwards subprocess output to the logger line by line and
// records it into the diagnostic tail.
type logWriter struct {
	runner *Runner
	level  string
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.runner.record(p)

	lines := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	for _, line := range lines {
		if w.level == "info" {
			w.runner.logger.Info(line)
		} else {
			w.runner.logger.Warn(line)
		}
	}
	return len(p), nil
}
