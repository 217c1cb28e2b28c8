package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/vthunder/tock/internal/activity"
	"github.com/vthunder/tock/internal/app"
	"github.com/vthunder/tock/internal/tasks"
	"github.com/vthunder/tock/internal/timer"
)

// linePresenter prints notices as plain lines for the headless timer.
type linePresenter struct {
	w io.Writer
}

func (p linePresenter) Render([]tasks.Row, int) {}
func (p linePresenter) RenderTimer(string) {}
func (p linePresenter) Confirm(string) bool { return false }

func (p linePresenter) Notify(title, message string) {
	fmt.Fprintf(p.w, "\n%s: %s\n", title, message)
}

// runTimer counts down without the terminal UI until the phase ends, or
// forever with repeat, stopping early on SIGINT or SIGTERM.
func runTimer(cfg app.Config, repeat bool) error {
	cfg.Presenter = linePresenter{w: os.Stdout}
	ctrl := app.New(cfg)
	defer ctrl.Close()

	done := make(chan struct{})
	var once sync.Once
	var loop *timer.Loop
	loop = timer.NewLoop(cfg.Runner, timer.RealClock{}, func(st timer.State) {
		fmt.Fprintf(os.Stdout, "\r%s ", st.Label())
		if st.Running {
			return
		}
		if repeat {
			loop.Start()
			return
		}
		once.Do(func() { close(done) })
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	fmt.Fprintf(os.Stdout, "%s ", cfg.Runner.Label())
	if err := cfg.Activity.LogTimer("start", cfg.Runner.Label()); err != nil {
		fmt.Fprintf(os.Stderr, "activity log: %v\n", err)
	}
	loop.Start()

	select {
	case <-done:
	case <-sig:
		if err := cfg.Activity.LogTimer("stop", cfg.Runner.Label()); err != nil {
			fmt.Fprintf(os.Stderr, "activity log: %v\n", err)
		}
	}
	loop.Close()
	fmt.Fprintln(os.Stdout)
	return nil
}

// printHistory writes the last n activity entries, oldest first.
func printHistory(w io.Writer, log *activity.Log, n int) error {
	entries, err := log.Recent(n)
	if err != nil {
		return fmt.Errorf("failed to read activity: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity yet.")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-14s %s", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Type, e.Summary)
		if e.Source != "" {
			line += " [" + e.Source + "]"
		}
		fmt.Fprintln(w, line)
	}
	minutes, err := log.FocusMinutesToday()
	if err != nil {
		return fmt.Errorf("failed to read focus time: %w", err)
	}
	fmt.Fprintf(w, "Focus today: %d min\n", minutes)
	return nil
}
