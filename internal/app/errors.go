package app

import (
	"errors"

	"github.com/vthunder/tock/internal/logging"
	"github.com/vthunder/tock/internal/storage"
	"github.com/vthunder/tock/internal/tasks"
)

// report is the error boundary for every operation: it tells the
// presenter, records the failure, and lets the session carry on.
func (c *Controller) report(op string, err error) {
	var (
		invalid  *tasks.ValidationError
		notFound *tasks.NotFoundError
		saveErr  *tasks.SaveError
		ioErr    *storage.IOError
		parseErr *storage.ParseError
	)

	switch {
	case errors.As(err, &invalid):
		c.setStatus("Invalid input")
		c.presenter.Notify("Invalid", invalid.Error())
		return // user input, not worth an activity entry
	case errors.As(err, &notFound):
		c.setStatus("No such task")
		c.presenter.Notify("No selection", notFound.Error())
		return
	case errors.As(err, &saveErr):
		c.setStatus("Save failed")
		c.presenter.Notify("Save Error", "Failed to save tasks: "+saveErr.Err.Error())
	case errors.As(err, &ioErr) && ioErr.Op == "export":
		c.setStatus("Export failed")
		c.presenter.Notify("Export Error", ioErr.Error())
	case errors.As(err, &parseErr):
		c.setStatus("Load failed")
		c.presenter.Notify("Load Error", "Failed to load tasks: "+parseErr.Error())
	case errors.As(err, &ioErr) && ioErr.Op == "read":
		c.setStatus("Load failed")
		c.presenter.Notify("Load Error", "Failed to load tasks: "+ioErr.Error())
	default:
		c.setStatus(op + " failed")
		c.presenter.Notify("Error", err.Error())
	}

	logging.Info("app", "%s: %v", op, err)
	if logErr := c.activity.LogError(op, err, nil); logErr != nil {
		logging.Debug("app", "activity log: %v", logErr)
	}
}

// ReportLoad shows a failure from loading the task file at startup. The
// session continues with whatever the store holds.
func (c *Controller) ReportLoad(err error) {
	if err != nil {
		c.report("load", err)
	}
}
