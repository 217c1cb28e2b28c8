package app

import "github.com/vthunder/tock/internal/tasks"

// Presenter is implemented by a front end. The controller pushes every
// change through it and never waits on user input: field collection
// happens in the front end, which then calls Add or Edit.
type Presenter interface {
	// Render shows the current projection and completion percentage.
	Render(rows []tasks.Row, progress int)
	// RenderTimer shows the timer label, e.g. "24:59 (Work)".
	RenderTimer(label string)
	// Notify reports a phase change, a warning or an error.
	Notify(title, message string)
	// Confirm answers a yes/no question for a destructive action. Front
	// ends that prompt asynchronously ask first and answer from the
	// recorded reply.
	Confirm(message string) bool
}

// Discard is a Presenter that shows nothing and confirms everything.
// Callers without a screen (the tool server, the headless timer) use it.
type Discard struct{}

func (Discard) Render([]tasks.Row, int) {}
func (Discard) RenderTimer(string) {}
func (Discard) Notify(string, string) {}
func (Discard) Confirm(string) bool { return true }
