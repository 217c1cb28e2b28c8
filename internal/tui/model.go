package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vthunder/tock/internal/app"
	"github.com/vthunder/tock/internal/logging"
	"github.com/vthunder/tock/internal/tasks"
	"github.com/vthunder/tock/internal/timer"
)

// FocusRegion says which part of the screen receives keystrokes.
type FocusRegion int

const (
	FocusList FocusRegion = iota
	FocusSearch
	FocusForm
	FocusConfirm
)

// notice is the last message pushed through Presenter.Notify.
type notice struct {
	title   string
	message string
}

func (n notice) isError() bool {
	switch n.title {
	case "Invalid", "No selection", "Save Error", "Load Error", "Export Error", "Error":
		return true
	}
	return false
}

// screen is the Presenter side of the model. The controller writes into
// it while Update runs; View reads from it. It is shared by pointer so
// every copy of Model sees the same render state.
type screen struct {
	rows       []tasks.Row
	progress   int
	timerLabel string
	notice     notice

	// confirmed is the reply to the y/n prompt, consumed by the next
	// Confirm call.
	confirmed bool
}

func (s *screen) Render(rows []tasks.Row, progress int) {
	s.rows = rows
	s.progress = progress
}

func (s *screen) RenderTimer(label string) { s.timerLabel = label }

func (s *screen) Notify(title, message string) {
	s.notice = notice{title: title, message: message}
	logging.Debug("tui", "notice %s: %s", title, logging.Truncate(message, 80))
}

func (s *screen) Confirm(string) bool {
	answer := s.confirmed
	s.confirmed = false
	return answer
}

// tickMsg is one timer tick, tagged with the generation it was scheduled
// under so ticks from before a pause or reset are dropped.
type tickMsg struct {
	gen timer.Generation
}

func tickCmd(gen timer.Generation) tea.Cmd {
	return tea.Tick(timer.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Model is the bubbletea model for the task list and timer.
type Model struct {
	ctrl   *app.Controller
	screen *screen
	keys   KeyMap
	theme  Theme

	focusRegion FocusRegion
	cursor      int
	selectedID  int // follows the task across re-sorts

	search textinput.Model
	form   *taskForm

	confirmID     int
	confirmPrompt string

	bar    progress.Model
	width  int
	height int
}

// NewModel builds the controller around a new screen and renders the
// initial projection. cfg.Presenter is replaced.
func NewModel(cfg app.Config) Model {
	s := &screen{}
	cfg.Presenter = s

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search title or notes"
	search.CharLimit = 128

	model := Model{
		ctrl:   app.New(cfg),
		screen: s,
		keys:   DefaultKeyMap,
		theme:  DefaultTheme,
		search: search,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
	}
	model.ctrl.Refresh()
	model.syncCursor()
	return model
}

// Controller returns the controller the model drives.
func (model Model) Controller() *app.Controller { return model.ctrl }

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		return model, nil

	case tickMsg:
		if model.ctrl.Tick(message.gen) {
			return model, tickCmd(message.gen)
		}
		return model, nil

	case tea.KeyMsg:
		switch model.focusRegion {
		case FocusSearch:
			return model.handleSearchKeys(message)
		case FocusForm:
			return model.handleFormKeys(message)
		case FocusConfirm:
			return model.handleConfirmKeys(message)
		}
		return model.handleListKeys(message)
	}

	// Cursor blink and other input messages go to whichever input has
	// focus.
	switch model.focusRegion {
	case FocusSearch:
		var cmd tea.Cmd
		model.search, cmd = model.search.Update(message)
		return model, cmd
	case FocusForm:
		return model, model.form.update(message)
	}
	return model, nil
}

func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)

	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)

	case key.Matches(message, model.keys.Add):
		model.form = newTaskForm(0, tasks.DefaultFields())
		model.focusRegion = FocusForm
		return model, textinput.Blink

	case key.Matches(message, model.keys.Edit):
		id, ok := model.requireSelection("edit")
		if !ok {
			break
		}
		task, err := model.ctrl.Get(id)
		if err != nil {
			break
		}
		model.form = newTaskForm(id, task.Fields())
		model.focusRegion = FocusForm
		return model, textinput.Blink

	case key.Matches(message, model.keys.Delete):
		id, ok := model.requireSelection("delete")
		if !ok {
			break
		}
		task, err := model.ctrl.Get(id)
		if err != nil {
			break
		}
		model.confirmID = id
		model.confirmPrompt = fmt.Sprintf("Delete %q? (y/n)", task.Title)
		model.focusRegion = FocusConfirm

	case key.Matches(message, model.keys.Done):
		if id, ok := model.requireSelection("mark done"); ok {
			model.ctrl.MarkDone(id)
		}

	case key.Matches(message, model.keys.Search):
		model.focusRegion = FocusSearch
		model.search.SetValue(model.ctrl.Query())
		model.search.CursorEnd()
		return model, model.search.Focus()

	case key.Matches(message, model.keys.Filter):
		model.ctrl.CycleFilter()

	case key.Matches(message, model.keys.Export):
		model.ctrl.Export("")

	case key.Matches(message, model.keys.Start):
		if gen, scheduled := model.ctrl.StartTimer(); scheduled {
			return model, tickCmd(gen)
		}

	case key.Matches(message, model.keys.Pause):
		model.ctrl.PauseTimer()

	case key.Matches(message, model.keys.Reset):
		model.ctrl.ResetTimer()

	case key.Matches(message, model.keys.WorkUp):
		model.ctrl.AdjustTimer(1, 0)

	case key.Matches(message, model.keys.WorkDown):
		model.ctrl.AdjustTimer(-1, 0)

	case key.Matches(message, model.keys.BreakUp):
		model.ctrl.AdjustTimer(0, 1)

	case key.Matches(message, model.keys.BreakDown):
		model.ctrl.AdjustTimer(0, -1)
	}

	model.syncCursor()
	return model, nil
}

// handleSearchKeys edits the query live. Enter keeps it, Esc clears it.
func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit

	case key.Matches(message, model.keys.Cancel):
		model.search.SetValue("")
		model.search.Blur()
		model.focusRegion = FocusList
		model.ctrl.SetQuery("")
		model.syncCursor()
		return model, nil

	case key.Matches(message, model.keys.Submit):
		model.search.Blur()
		model.focusRegion = FocusList
		return model, nil
	}

	var cmd tea.Cmd
	model.search, cmd = model.search.Update(message)
	if model.search.Value() != model.ctrl.Query() {
		model.ctrl.SetQuery(model.search.Value())
		model.cursor = 0
		model.selectedID = 0
		model.syncCursor()
	}
	return model, cmd
}

func (model Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := model.form
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit

	case key.Matches(message, model.keys.Cancel):
		model.form = nil
		model.focusRegion = FocusList
		return model, nil

	case key.Matches(message, model.keys.NextField):
		form.move(1)
		return model, textinput.Blink

	case key.Matches(message, model.keys.PrevField):
		form.move(-1)
		return model, textinput.Blink

	case key.Matches(message, model.keys.Submit):
		return model.submitForm()
	}
	return model, form.update(message)
}

// submitForm hands the parsed fields to the controller. Bad input keeps
// the form open with the reason shown inline.
func (model Model) submitForm() (tea.Model, tea.Cmd) {
	form := model.form
	fields, err := form.fields()
	if err != nil {
		form.err = err.Error()
		return model, nil
	}

	if form.editID == 0 {
		var id int
		id, err = model.ctrl.Add(fields)
		if id != 0 {
			model.selectedID = id
		}
	} else {
		err = model.ctrl.Edit(form.editID, fields)
	}

	var invalid *tasks.ValidationError
	if errors.As(err, &invalid) {
		form.err = invalid.Error()
		return model, nil
	}
	model.form = nil
	model.focusRegion = FocusList
	model.syncCursor()
	return model, nil
}

func (model Model) handleConfirmKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit
	case key.Matches(message, model.keys.Yes):
		model.screen.confirmed = true
	case key.Matches(message, model.keys.No):
		model.screen.confirmed = false
	default:
		return model, nil
	}
	model.ctrl.Delete(model.confirmID)
	model.confirmID = 0
	model.confirmPrompt = ""
	model.focusRegion = FocusList
	model.syncCursor()
	return model, nil
}

// requireSelection returns the selected task id, or warns the way the
// controller would for a missing task.
func (model *Model) requireSelection(action string) (int, bool) {
	if model.selectedID == 0 {
		model.screen.Notify("No selection", fmt.Sprintf("Please select a task to %s.", action))
		return 0, false
	}
	return model.selectedID, true
}

func (model *Model) moveCursor(delta int) {
	rows := model.screen.rows
	if len(rows) == 0 {
		return
	}
	model.cursor += delta
	if model.cursor < 0 {
		model.cursor = 0
	}
	if model.cursor >= len(rows) {
		model.cursor = len(rows) - 1
	}
	model.selectedID = rows[model.cursor].ID
}

// syncCursor keeps the selection on the same task id after the rows
// change, falling back to the nearest position.
func (model *Model) syncCursor() {
	rows := model.screen.rows
	if len(rows) == 0 {
		model.cursor = 0
		model.selectedID = 0
		return
	}
	for i, row := range rows {
		if row.ID == model.selectedID {
			model.cursor = i
			return
		}
	}
	if model.cursor >= len(rows) {
		model.cursor = len(rows) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
	model.selectedID = rows[model.cursor].ID
}
