package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vthunder/tock/internal/tasks"
)

// Theme defines the color palette for the terminal UI.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Priority colors, indexed by position in tasks.Priorities.
	PriorityColors [3]lipgloss.Color

	StatusTodo       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusDone       lipgloss.Color

	TimerWork  lipgloss.Color
	TimerBreak lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	NoticeInfo  lipgloss.Color
	NoticeError lipgloss.Color
}

// PriorityColor returns the color for a priority label.
func (theme Theme) PriorityColor(priority tasks.Priority) lipgloss.Color {
	for i, p := range tasks.Priorities {
		if p == priority && i < len(theme.PriorityColors) {
			return theme.PriorityColors[i]
		}
	}
	return theme.NormalText
}

// StatusColor returns the color for a status label.
func (theme Theme) StatusColor(status tasks.Status) lipgloss.Color {
	switch status {
	case tasks.StatusTodo:
		return theme.StatusTodo
	case tasks.StatusInProgress:
		return theme.StatusInProgress
	case tasks.StatusDone:
		return theme.StatusDone
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	PriorityColors: [3]lipgloss.Color{
		lipgloss.Color("245"), // low: gray
		lipgloss.Color("75"),  // medium: blue
		lipgloss.Color("208"), // high: orange
	},

	StatusTodo:       lipgloss.Color("252"),
	StatusInProgress: lipgloss.Color("220"),
	StatusDone:       lipgloss.Color("78"),

	TimerWork:  lipgloss.Color("203"),
	TimerBreak: lipgloss.Color("78"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	NoticeInfo:  lipgloss.Color("75"),
	NoticeError: lipgloss.Color("196"),
}
