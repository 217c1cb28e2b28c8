// Package timer implements the work/break interval timer as a value-typed
// state machine. Transitions are pure: each returns the next State and
// never touches a clock. Runner adds the scheduling bookkeeping.
package timer

import "fmt"

// Mode is the current phase.
type Mode string

const (
	ModeWork  Mode = "Work"
	ModeBreak Mode = "Break"
)

// Other returns the phase that follows m.
func (m Mode) Other() Mode {
	if m == ModeWork {
		return ModeBreak
	}
	return ModeWork
}

// Default phase lengths in minutes.
const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
)

// State is the full timer state. The zero value is not useful; use New.
type State struct {
	Mode         Mode
	Remaining    int // seconds; only transiently below zero inside Tick
	Running      bool
	WorkMinutes  int
	BreakMinutes int
}

// PhaseFinished is emitted by Tick when a phase runs out.
type PhaseFinished struct {
	Mode Mode // the phase that just ended
}

// New returns a paused Work state with a full work phase remaining.
// Minute values below 1 are clamped to 1.
func New(workMinutes, breakMinutes int) State {
	s := State{
		Mode:         ModeWork,
		WorkMinutes:  clampMinutes(workMinutes),
		BreakMinutes: clampMinutes(breakMinutes),
	}
	s.Remaining = s.WorkMinutes * 60
	return s
}

// Duration returns the configured length of mode in seconds.
func (s State) Duration(mode Mode) int {
	if mode == ModeBreak {
		return s.BreakMinutes * 60
	}
	return s.WorkMinutes * 60
}

// Configure stores new phase lengths. While paused the timer is also put
// back to the start of a Work phase; a running phase keeps its remaining
// time.
func (s State) Configure(workMinutes, breakMinutes int) State {
	s.WorkMinutes = clampMinutes(workMinutes)
	s.BreakMinutes = clampMinutes(breakMinutes)
	if !s.Running {
		s.Mode = ModeWork
		s.Remaining = s.Duration(ModeWork)
	}
	return s
}

// Start sets the timer running, refilling an exhausted phase first.
// Starting a running timer changes nothing.
func (s State) Start() State {
	if s.Running {
		return s
	}
	if s.Remaining <= 0 {
		s.Remaining = s.Duration(s.Mode)
	}
	s.Running = true
	return s
}

// Pause stops the countdown. Pausing a paused timer changes nothing.
func (s State) Pause() State {
	s.Running = false
	return s
}

// Reset returns to a paused, full Work phase from any state.
func (s State) Reset() State {
	s.Running = false
	s.Mode = ModeWork
	s.Remaining = s.Duration(ModeWork)
	return s
}

// Tick advances a running timer by one second. The tick that uses up the
// last second ends the phase: the mode flips, the new phase is loaded and
// the timer pauses, waiting for Start. A phase of N seconds therefore
// ends on exactly the Nth tick. A paused timer ignores ticks.
func (s State) Tick() (State, *PhaseFinished) {
	if !s.Running {
		return s, nil
	}
	s.Remaining--
	if s.Remaining > 0 {
		return s, nil
	}

	finished := &PhaseFinished{Mode: s.Mode}
	s.Mode = s.Mode.Other()
	s.Remaining = s.Duration(s.Mode)
	s.Running = false
	return s, finished
}

// Label renders the remaining time as "MM:SS (Mode)".
func (s State) Label() string {
	remaining := s.Remaining
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%02d:%02d (%s)", remaining/60, remaining%60, s.Mode)
}

func clampMinutes(m int) int {
	if m < 1 {
		return 1
	}
	return m
}
