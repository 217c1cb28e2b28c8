package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the task list.
type KeyMap struct {
	// Navigation.
	Up   key.Binding
	Down key.Binding

	// Task operations.
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Done   key.Binding
	Export key.Binding

	// View.
	Search key.Binding // Enter search mode.
	Filter key.Binding // Cycle the status filter.

	// Timer.
	Start     key.Binding
	Pause     key.Binding
	Reset     key.Binding
	WorkUp    key.Binding
	WorkDown  key.Binding
	BreakUp   key.Binding
	BreakDown key.Binding

	// Prompts and forms.
	Yes       key.Binding
	No        key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Done: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "done"),
	),
	Export: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "export csv"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	),
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	WorkUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+/-", "work min"),
	),
	WorkDown: key.NewBinding(
		key.WithKeys("-"),
	),
	BreakUp: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]/[", "break min"),
	),
	BreakDown: key.NewBinding(
		key.WithKeys("["),
	),
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "no"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// listHelp is the order bindings appear in the footer.
func (keys KeyMap) listHelp() []key.Binding {
	return []key.Binding{
		keys.Add, keys.Edit, keys.Delete, keys.Done, keys.Search, keys.Filter,
		keys.Start, keys.Pause, keys.Reset, keys.WorkUp, keys.BreakUp,
		keys.Export, keys.Quit,
	}
}
