// Package profiling records how long storage operations take, one JSON
// line per operation, so a slow task file or database shows up without
// a debugger.
package profiling

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vthunder/tock/internal/tasks"
)

// Filename is the timing log inside the state directory.
const Filename = "profile.jsonl"

// Timing is a single measurement.
type Timing struct {
	Op         string    `json:"op"` // "load" or "save"
	Backend    string    `json:"backend"`
	StartTime  time.Time `json:"start_time"`
	DurationMs float64   `json:"duration_ms"`
	Tasks      int       `json:"tasks"`
	Error      string    `json:"error,omitempty"`
}

// Profiler appends timings to a file. A nil *Profiler records nothing.
type Profiler struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
}

// Open starts a profiler appending to path.
func Open(path string) (*Profiler, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiling log: %w", err)
	}
	return &Profiler{file: f, encoder: json.NewEncoder(f)}, nil
}

// Close closes the log file.
func (p *Profiler) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.file.Close()
}

// Start begins timing op and returns the function that records it.
func (p *Profiler) Start(op, backend string) func(count int, err error) {
	if p == nil {
		return func(int, error) {}
	}
	start := time.Now()
	return func(count int, err error) {
		t := Timing{
			Op:         op,
			Backend:    backend,
			StartTime:  start,
			DurationMs: float64(time.Since(start).Nanoseconds()) / 1e6,
			Tasks:      count,
		}
		if err != nil {
			t.Error = err.Error()
		}
		p.record(t)
	}
}

func (p *Profiler) record(t Timing) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.encoder.Encode(t)
}

// Wrap times every Load and Save of inner. With a nil profiler inner is
// returned unchanged.
func Wrap(p *Profiler, backend string, inner tasks.Persister) tasks.Persister {
	if p == nil {
		return inner
	}
	return &timedPersister{p: p, backend: backend, inner: inner}
}

type timedPersister struct {
	p       *Profiler
	backend string
	inner   tasks.Persister
}

func (t *timedPersister) Load() ([]tasks.Task, error) {
	done := t.p.Start("load", t.backend)
	loaded, err := t.inner.Load()
	done(len(loaded), err)
	return loaded, err
}

func (t *timedPersister) Save(all []tasks.Task) error {
	done := t.p.Start("save", t.backend)
	err := t.inner.Save(all)
	done(len(all), err)
	return err
}
