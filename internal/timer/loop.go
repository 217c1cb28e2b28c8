package timer

import (
	"sync"
	"time"
)

// TickInterval is how often a running timer advances.
const TickInterval = time.Second

// Loop drives a Runner from a Clock for hosts that have no event loop of
// their own (the terminal UI schedules ticks through bubbletea instead).
// At most one tick is pending at a time, and Pause, Reset and Close
// cancel it.
type Loop struct {
	runner  *Runner
	clock   Clock
	onTick  func(State)
	mu      sync.Mutex
	pending Cancel
	closed  bool
}

// NewLoop creates a loop. onTick, if non-nil, is called with the new
// state after every applied tick.
func NewLoop(runner *Runner, clock Clock, onTick func(State)) *Loop {
	return &Loop{runner: runner, clock: clock, onTick: onTick}
}

// Start starts the runner and schedules the first tick.
func (l *Loop) Start() {
	gen, scheduled := l.runner.Start()
	if !scheduled {
		return
	}
	l.schedule(gen)
}

// Pause pauses the runner and cancels the pending tick.
func (l *Loop) Pause() {
	l.cancel()
	l.runner.Pause()
}

// Reset resets the runner and cancels the pending tick.
func (l *Loop) Reset() {
	l.cancel()
	l.runner.Reset()
}

// Close cancels the pending tick and stops scheduling for good.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cancel()
	l.runner.Stop()
}

func (l *Loop) schedule(gen Generation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.pending = l.clock.AfterFunc(TickInterval, func() {
		again, finished := l.runner.Tick(gen)
		if !again && finished == nil {
			return // stale
		}
		if l.onTick != nil {
			l.onTick(l.runner.State())
		}
		if again {
			l.schedule(gen)
		}
	})
}

func (l *Loop) cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending != nil {
		l.pending.Stop()
		l.pending = nil
	}
}
