// Package app wires the task store, the timer and a front end together.
// It owns the search query, the status filter and the status line, and
// turns every failure into a notice instead of an exit.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/vthunder/tock/internal/activity"
	"github.com/vthunder/tock/internal/logging"
	"github.com/vthunder/tock/internal/notify"
	"github.com/vthunder/tock/internal/storage"
	"github.com/vthunder/tock/internal/tasks"
	"github.com/vthunder/tock/internal/timer"
)

// NotifyTimeout bounds one external phase notification.
const NotifyTimeout = 10 * time.Second

// Config holds the collaborators of a Controller. Store, Runner and
// Presenter are required.
type Config struct {
	Store     *tasks.Store
	Runner    *timer.Runner
	Presenter Presenter
	Activity  *activity.Log   // optional
	Notifier  notify.Notifier // optional, called on every phase change

	// ExportPath is used when Export is given no path.
	ExportPath string

	// OnConfigure is called after the timer lengths change, so the
	// caller can persist them.
	OnConfigure func(workMinutes, breakMinutes int)
}

// Controller runs the operations a front end offers. Its methods are
// meant to be called from one event loop at a time; the store and the
// runner do their own locking.
type Controller struct {
	store       *tasks.Store
	runner      *timer.Runner
	presenter   Presenter
	activity    *activity.Log
	notifier    notify.Notifier
	exportPath  string
	onConfigure func(int, int)

	query  string
	filter tasks.StatusFilter
	rows   []tasks.Row

	statusMu sync.Mutex // phase changes may arrive from a clock goroutine
	status   string

	notifying sync.WaitGroup
}

// New creates a controller and hooks it to the runner's phase changes.
func New(cfg Config) *Controller {
	c := &Controller{
		store:       cfg.Store,
		runner:      cfg.Runner,
		presenter:   cfg.Presenter,
		activity:    cfg.Activity,
		notifier:    cfg.Notifier,
		exportPath:  cfg.ExportPath,
		onConfigure: cfg.OnConfigure,
		filter:      tasks.FilterAll,
		status:      "Ready",
	}
	if c.presenter == nil {
		c.presenter = Discard{}
	}
	c.runner.OnFinish(c.phaseFinished)
	return c
}

// Status returns the status line.
func (c *Controller) Status() string {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	return c.status
}

func (c *Controller) setStatus(s string) {
	c.statusMu.Lock()
	c.status = s
	c.statusMu.Unlock()
}

// Summary returns "done/total tasks done (pct%)".
func (c *Controller) Summary() string {
	all := c.store.All()
	done, total := tasks.Counts(all)
	return fmt.Sprintf("%d/%d tasks done (%d%%)", done, total, tasks.Progress(all))
}

// Query returns the current search text.
func (c *Controller) Query() string { return c.query }

// Filter returns the current status filter.
func (c *Controller) Filter() tasks.StatusFilter { return c.filter }

// Rows returns the projection last sent to the presenter.
func (c *Controller) Rows() []tasks.Row { return c.rows }

// Refresh recomputes the projection and renders it with the timer.
func (c *Controller) Refresh() {
	all := c.store.All()
	c.rows = tasks.Project(all, c.query, c.filter)
	c.presenter.Render(c.rows, tasks.Progress(all))
	c.presenter.RenderTimer(c.runner.Label())
}

// Get returns a task for an edit form or a detail pane.
func (c *Controller) Get(id int) (tasks.Task, error) {
	t, ok := c.store.Get(id)
	if !ok {
		err := &tasks.NotFoundError{ID: id}
		c.report("get", err)
		return tasks.Task{}, err
	}
	return t, nil
}

// Details returns the detail text of a task, or "" if it is gone.
func (c *Controller) Details(id int) string {
	t, ok := c.store.Get(id)
	if !ok {
		return ""
	}
	return tasks.Details(t)
}

// Add validates and stores a new task. A failed save still keeps the
// task in memory and returns its id with the error.
func (c *Controller) Add(fields tasks.Fields) (int, error) {
	id, err := c.store.Add(fields)
	if id != 0 {
		c.logTask(activity.TypeTaskAdded, id)
		c.setStatus("Task added")
		c.Refresh()
	}
	if err != nil {
		c.report("add", err)
	}
	return id, err
}

// Edit replaces the fields of a task.
func (c *Controller) Edit(id int, fields tasks.Fields) error {
	err := c.store.Update(id, fields)
	if err == nil || isSaveError(err) {
		c.logTask(activity.TypeTaskUpdated, id)
		c.setStatus("Task updated")
		c.Refresh()
	}
	if err != nil {
		c.report("edit", err)
	}
	return err
}

// Delete removes a task after the presenter confirms. It reports
// whether the task was removed.
func (c *Controller) Delete(id int) (bool, error) {
	t, ok := c.store.Get(id)
	if !ok {
		err := &tasks.NotFoundError{ID: id}
		c.report("delete", err)
		return false, err
	}
	if !c.presenter.Confirm(fmt.Sprintf("Delete %q?", t.Title)) {
		c.setStatus("Delete cancelled")
		return false, nil
	}
	err := c.store.Delete(id)
	if err == nil || isSaveError(err) {
		c.logTitled(activity.TypeTaskDeleted, id, t.Title)
		c.setStatus("Task deleted")
		c.Refresh()
	}
	if err != nil {
		c.report("delete", err)
		return isSaveError(err), err
	}
	return true, nil
}

// MarkDone sets a task's status to Done.
func (c *Controller) MarkDone(id int) error {
	err := c.store.MarkDone(id)
	if err == nil || isSaveError(err) {
		c.logTask(activity.TypeTaskDone, id)
		c.setStatus("Task marked done")
		c.Refresh()
	}
	if err != nil {
		c.report("done", err)
	}
	return err
}

// SetQuery changes the search text and re-renders.
func (c *Controller) SetQuery(q string) {
	c.query = q
	c.Refresh()
}

// SetFilter changes the status filter and re-renders.
func (c *Controller) SetFilter(f tasks.StatusFilter) {
	c.filter = f
	c.Refresh()
}

// CycleFilter moves to the next status filter.
func (c *Controller) CycleFilter() tasks.StatusFilter {
	c.SetFilter(c.filter.Next())
	return c.filter
}

// Export writes every task, unfiltered, to path as CSV. An empty path
// means the configured export path. It returns the number of tasks
// written.
func (c *Controller) Export(path string) (int, error) {
	if path == "" {
		path = c.exportPath
	}
	all := c.store.All()
	if err := storage.ExportCSV(all, path); err != nil {
		c.report("export", err)
		return 0, err
	}
	c.presenter.Notify("Exported", fmt.Sprintf("Exported %d tasks to %s", len(all), path))
	c.setStatus("Exported")
	if err := c.activity.LogExport(path, len(all)); err != nil {
		logging.Debug("app", "activity log: %v", err)
	}
	return len(all), nil
}

// Close waits for in-flight phase notifications.
func (c *Controller) Close() {
	c.notifying.Wait()
}

func (c *Controller) logTask(t activity.Type, id int) {
	title := ""
	if task, ok := c.store.Get(id); ok {
		title = task.Title
	}
	c.logTitled(t, id, title)
}

func (c *Controller) logTitled(t activity.Type, id int, title string) {
	if err := c.activity.LogTask(t, id, title); err != nil {
		logging.Debug("app", "activity log: %v", err)
	}
}

func isSaveError(err error) bool {
	_, ok := err.(*tasks.SaveError)
	return ok
}
