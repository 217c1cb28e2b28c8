package app

import (
	"context"
	"fmt"

	"github.com/vthunder/tock/internal/logging"
	"github.com/vthunder/tock/internal/timer"
)

// StartTimer starts the countdown. When it returns true the host must
// deliver a tick carrying gen about a second later.
func (c *Controller) StartTimer() (gen timer.Generation, scheduled bool) {
	gen, scheduled = c.runner.Start()
	if scheduled {
		c.setStatus("Timer running")
		c.logTimer("start")
	}
	c.presenter.RenderTimer(c.runner.Label())
	return gen, scheduled
}

// PauseTimer pauses the countdown. Ticks already scheduled are dropped.
func (c *Controller) PauseTimer() {
	if !c.runner.State().Running {
		return
	}
	c.runner.Pause()
	c.setStatus("Timer paused")
	c.logTimer("pause")
	c.presenter.RenderTimer(c.runner.Label())
}

// ResetTimer returns to a full, paused Work phase.
func (c *Controller) ResetTimer() {
	c.runner.Reset()
	c.setStatus("Timer reset")
	c.logTimer("reset")
	c.presenter.RenderTimer(c.runner.Label())
}

// ConfigureTimer sets the phase lengths in minutes. Values below one are
// raised to one.
func (c *Controller) ConfigureTimer(workMinutes, breakMinutes int) {
	c.runner.Configure(workMinutes, breakMinutes)
	st := c.runner.State()
	c.setStatus(fmt.Sprintf("Work %d min, break %d min", st.WorkMinutes, st.BreakMinutes))
	c.logTimer("configure")
	if c.onConfigure != nil {
		c.onConfigure(st.WorkMinutes, st.BreakMinutes)
	}
	c.presenter.RenderTimer(c.runner.Label())
}

// AdjustTimer changes the phase lengths by the given deltas.
func (c *Controller) AdjustTimer(workDelta, breakDelta int) {
	st := c.runner.State()
	c.ConfigureTimer(st.WorkMinutes+workDelta, st.BreakMinutes+breakDelta)
}

// Tick delivers one scheduled tick. It reports whether the host should
// schedule another with the same generation.
func (c *Controller) Tick(gen timer.Generation) bool {
	again, _ := c.runner.Tick(gen)
	c.presenter.RenderTimer(c.runner.Label())
	return again
}

// TimerState returns the runner's current state.
func (c *Controller) TimerState() timer.State { return c.runner.State() }

// phaseFinished runs on every Work/Break transition, outside the runner
// lock.
func (c *Controller) phaseFinished(ev timer.PhaseFinished) {
	st := c.runner.State()
	message := fmt.Sprintf("%s finished!", ev.Mode)

	c.presenter.Notify("Timer", message)
	c.setStatus(fmt.Sprintf("%s ready", st.Mode))
	logging.Info("timer", "%s", message)

	minutes := st.Duration(ev.Mode) / 60
	if err := c.activity.LogPhaseFinished(string(ev.Mode), minutes); err != nil {
		logging.Debug("app", "activity log: %v", err)
	}

	if c.notifier == nil {
		return
	}
	c.notifying.Add(1)
	go func() {
		defer c.notifying.Done()
		ctx, cancel := context.WithTimeout(context.Background(), NotifyTimeout)
		defer cancel()
		if err := c.notifier.Notify(ctx, "Timer", message); err != nil {
			logging.Info("timer", "notify failed: %v", err)
		}
	}()
}

func (c *Controller) logTimer(action string) {
	if err := c.activity.LogTimer(action, c.runner.Label()); err != nil {
		logging.Debug("app", "activity log: %v", err)
	}
}
