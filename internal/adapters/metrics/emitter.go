// Package metrics implements a fire-and-forget measurement emitter.
package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/stackmill/gopack/internal/core/ports"
)

var _ ports.Metrics = (*Emitter)(nil)

// Emitter appends measurements as JSON lines to a file under the cache
// root. Emission never affects the build: every error is swallowed.
type Emitter struct {
	path string
	mu   sync.Mutex
}

type measurement struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value int64  `json:"value"`
	At    int64  `json:"at"`
}

// NewEmitter creates an Emitter writing to path.
func NewEmitter(path string) *Emitter {
	return &Emitter{path: path}
}

// Count records an occurrence of name.
func (e *Emitter) Count(name string) {
	e.append(measurement{Name: name, Kind: "count", Value: 1})
}

// Timing records a duration in milliseconds.
func (e *Emitter) Timing(name string, d time.Duration) {
	e.append(measurement{Name: name, Kind: "timing", Value: d.Milliseconds()})
}

// Size records a byte size.
func (e *Emitter) Size(name string, bytes int64) {
	e.append(measurement{Name: name, Kind: "size", Value: bytes})
}

func (e *Emitter) append(m measurement) {
	m.At = time.Now().Unix()

	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	data = append(data, '\n')

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(e.path), 0o750); err != nil {
		return
	}
	f, err := os.OpenFile(e.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644) //nolint:gosec // metrics file under controlled root
	if err != nil {
		return
	}
	defer f.Close() //nolint:errcheck // best effort close in defer
	_, _ = f.Write(data)
}
