package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vthunder/tock/internal/tasks"
)

// Form field indices.
const (
	fieldTitle = iota
	fieldDue
	fieldPriority
	fieldEst
	fieldStatus
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title",
	"Due",
	"Priority",
	"Est (min)",
	"Status",
	"Notes",
}

var fieldPlaceholders = [fieldCount]string{
	"What needs doing",
	"YYYY-MM-DD",
	"Low / Medium / High",
	"30",
	"Todo / In Progress / Done",
	"",
}

// taskForm collects the fields of a new or edited task. Parsing happens
// here; validation is left to the store so the rules live in one place.
type taskForm struct {
	editID  int // zero for a new task
	inputs  [fieldCount]textinput.Model
	focused int
	err     string // last rejection, shown inline
}

func newTaskForm(editID int, fields tasks.Fields) *taskForm {
	form := &taskForm{editID: editID}
	values := [fieldCount]string{
		fields.Title,
		fields.Due,
		string(fields.Priority),
		strconv.Itoa(fields.EstMinutes),
		string(fields.Status),
		fields.Notes,
	}
	for i := range form.inputs {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = fieldPlaceholders[i]
		input.CharLimit = 256
		input.SetValue(values[i])
		form.inputs[i] = input
	}
	form.inputs[fieldTitle].Focus()
	return form
}

func (form *taskForm) title() string {
	if form.editID == 0 {
		return "New task"
	}
	return "Edit task #" + strconv.Itoa(form.editID)
}

func (form *taskForm) move(delta int) {
	form.inputs[form.focused].Blur()
	form.focused = (form.focused + delta + fieldCount) % fieldCount
	form.inputs[form.focused].Focus()
}

func (form *taskForm) update(message tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	form.inputs[form.focused], cmd = form.inputs[form.focused].Update(message)
	return cmd
}

// fields parses the inputs. Priority, status and estimate must parse
// before anything reaches the store.
func (form *taskForm) fields() (tasks.Fields, error) {
	value := func(i int) string { return strings.TrimSpace(form.inputs[i].Value()) }

	fields := tasks.Fields{
		Title: value(fieldTitle),
		Due:   value(fieldDue),
		Notes: value(fieldNotes),
	}

	priority, ok := tasks.ParsePriority(value(fieldPriority))
	if !ok {
		return fields, &tasks.ValidationError{Field: "priority", Reason: "must be Low, Medium or High"}
	}
	fields.Priority = priority

	est, err := strconv.Atoi(value(fieldEst))
	if err != nil {
		return fields, &tasks.ValidationError{Field: "est_minutes", Reason: "must be a whole number of minutes"}
	}
	fields.EstMinutes = est

	status, ok := tasks.ParseStatus(value(fieldStatus))
	if !ok {
		return fields, &tasks.ValidationError{Field: "status", Reason: "must be Todo, In Progress or Done"}
	}
	fields.Status = status

	return fields, nil
}
