package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/vthunder/tock/internal/tasks"
	"github.com/vthunder/tock/internal/timer"
)

const (
	defaultWidth = 80
	titleWidth   = 30
)

// View implements tea.Model.
func (model Model) View() string {
	width := model.width
	if width <= 0 {
		width = defaultWidth
	}

	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", width))

	sections := []string{
		model.renderHeader(),
		separator,
	}
	if model.focusRegion == FocusForm && model.form != nil {
		sections = append(sections, model.renderForm())
	} else {
		sections = append(sections, model.renderTable())
		if details := model.renderDetails(); details != "" {
			sections = append(sections, separator, details)
		}
	}
	sections = append(sections,
		separator,
		model.renderProgress(),
		model.renderStatus(),
		model.renderHelp(),
	)
	return strings.Join(sections, "\n")
}

func (model Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.HeaderForeground).
		Render("tock")

	state := model.ctrl.TimerState()
	timerColor := model.theme.TimerWork
	if state.Mode == timer.ModeBreak {
		timerColor = model.theme.TimerBreak
	}
	clock := lipgloss.NewStyle().Bold(true).Foreground(timerColor).Render(model.screen.timerLabel)
	running := "paused"
	if state.Running {
		running = "running"
	}
	lengths := fmt.Sprintf("work %dm / break %dm", state.WorkMinutes, state.BreakMinutes)

	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	line := title + "  " + clock + " " + faint.Render(running+"  "+lengths)

	var filterLine string
	if model.focusRegion == FocusSearch {
		filterLine = model.search.View()
	} else if q := model.ctrl.Query(); q != "" {
		filterLine = faint.Render("search: ") + q
	}
	filterLine += faint.Render(fmt.Sprintf("  filter: %s (f)", model.ctrl.Filter()))
	return line + "\n" + filterLine
}

func (model Model) renderTable() string {
	rows := model.screen.rows
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.FaintText)
	lines := []string{headerStyle.Render(formatRow("#", "Title", "Due", "Priority", "Est", "Status"))}

	if len(rows) == 0 {
		empty := "No tasks. Press a to add one."
		if model.ctrl.Query() != "" || model.ctrl.Filter() != tasks.FilterAll {
			empty = "No tasks match."
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(empty))
		return strings.Join(lines, "\n")
	}

	for i, row := range rows {
		text := formatRow(
			strconv.Itoa(row.ID),
			truncate(row.Title, titleWidth),
			row.Due,
			string(row.Priority),
			strconv.Itoa(row.EstMinutes),
			string(row.Status),
		)
		style := lipgloss.NewStyle().Foreground(model.theme.StatusColor(row.Status))
		if i == model.cursor {
			style = style.
				Background(model.theme.SelectedBackground).
				Foreground(model.theme.SelectedForeground).
				Bold(true)
			text = "> " + text
		} else {
			text = "  " + text
		}
		lines = append(lines, style.Render(text))
	}
	return strings.Join(lines, "\n")
}

func formatRow(id, title, due, priority, est, status string) string {
	return fmt.Sprintf("%-4s %-*s %-10s %-8s %4s  %s", id, titleWidth, title, due, priority, est, status)
}

func (model Model) renderDetails() string {
	if model.selectedID == 0 {
		return ""
	}
	details := model.ctrl.Details(model.selectedID)
	if details == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(model.theme.NormalText).Render(details)
}

func (model Model) renderForm() string {
	form := model.form
	lines := []string{lipgloss.NewStyle().Bold(true).Render(form.title())}
	labelStyle := lipgloss.NewStyle().Width(11).Foreground(model.theme.FaintText)
	for i := range form.inputs {
		label := labelStyle.Render(fieldLabels[i])
		if i == form.focused {
			label = labelStyle.Foreground(model.theme.HeaderForeground).Render(fieldLabels[i])
		}
		lines = append(lines, label+" "+form.inputs[i].View())
	}
	if form.err != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.NoticeError).Render(form.err))
	}
	return strings.Join(lines, "\n")
}

func (model Model) renderProgress() string {
	pct := model.screen.progress
	return model.bar.ViewAs(float64(pct)/100) + fmt.Sprintf(" %3d%%  ", pct) +
		lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(model.ctrl.Summary())
}

func (model Model) renderStatus() string {
	if model.focusRegion == FocusConfirm {
		return lipgloss.NewStyle().Bold(true).Foreground(model.theme.NoticeError).Render(model.confirmPrompt)
	}
	line := model.ctrl.Status()
	if n := model.screen.notice; n.title != "" {
		color := model.theme.NoticeInfo
		if n.isError() {
			color = model.theme.NoticeError
		}
		line += "  " + lipgloss.NewStyle().Foreground(color).Render(n.title+": "+n.message)
	}
	return line
}

func (model Model) renderHelp() string {
	var bindings []key.Binding
	switch model.focusRegion {
	case FocusForm:
		bindings = []key.Binding{model.keys.NextField, model.keys.Submit, model.keys.Cancel}
	case FocusSearch:
		bindings = []key.Binding{model.keys.Submit, model.keys.Cancel}
	case FocusConfirm:
		bindings = []key.Binding{model.keys.Yes, model.keys.No}
	default:
		bindings = model.keys.listHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(strings.Join(parts, " · "))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
