package timer

import "sync"

// Generation identifies one scheduling epoch of a Runner. A tick carries
// the generation it was scheduled under; Runner discards ticks from an
// older generation, so a tick that was already in flight when the user
// paused or reset can never change the state.
type Generation uint64

// Runner holds the only mutable timer State. The host event loop asks it
// for a generation when the timer starts, delivers ticks back roughly
// once a second, and keeps rescheduling while Tick says so.
type Runner struct {
	mu       sync.Mutex
	state    State
	gen      Generation
	onFinish func(PhaseFinished)
}

// NewRunner creates a paused runner at the start of a Work phase.
func NewRunner(workMinutes, breakMinutes int) *Runner {
	return &Runner{state: New(workMinutes, breakMinutes)}
}

// OnFinish registers a callback run after every phase transition. It is
// called without the runner lock held.
func (r *Runner) OnFinish(fn func(PhaseFinished)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFinish = fn
}

// State returns a copy of the current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Label is State().Label().
func (r *Runner) Label() string {
	return r.State().Label()
}

// Start sets the timer running. It returns the generation the host must
// attach to the next tick, and false if the timer was already running
// (a tick is then already scheduled and no new one is needed).
func (r *Runner) Start() (Generation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Running {
		return r.gen, false
	}
	r.state = r.state.Start()
	r.gen++
	return r.gen, true
}

// Pause stops the countdown and invalidates any pending tick.
func (r *Runner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = r.state.Pause()
	r.gen++
}

// Reset returns to a paused full Work phase and invalidates any pending
// tick.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = r.state.Reset()
	r.gen++
}

// Configure changes the phase lengths. A running countdown keeps its
// pending tick.
func (r *Runner) Configure(workMinutes, breakMinutes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = r.state.Configure(workMinutes, breakMinutes)
}

// Stop invalidates any pending tick without changing the state. Hosts
// call it on teardown.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
}

// Tick applies one tick scheduled under gen. It reports whether the host
// should schedule another tick with the same generation, and the phase
// transition if one happened. Stale ticks are ignored.
func (r *Runner) Tick(gen Generation) (bool, *PhaseFinished) {
	r.mu.Lock()
	if gen != r.gen || !r.state.Running {
		r.mu.Unlock()
		return false, nil
	}
	var finished *PhaseFinished
	r.state, finished = r.state.Tick()
	again := r.state.Running
	onFinish := r.onFinish
	r.mu.Unlock()

	if finished != nil && onFinish != nil {
		onFinish(*finished)
	}
	return again, finished
}
