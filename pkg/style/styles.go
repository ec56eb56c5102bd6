package style

import (
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	RuleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)
)

// Action styles
var (
	MoveStyle = lipgloss.NewStyle().
			Foreground(MoveColor).
			Bold(true)

	TrashStyle = lipgloss.NewStyle().
			Foreground(TrashColor).
			Bold(true)

	MkdirStyle = lipgloss.NewStyle().
			Foreground(MkdirColor).
			Bold(true)
)

// ActionStyle returns the style for an action kind
func ActionStyle(kind types.ActionKind) lipgloss.Style {
	switch kind {
	case types.ActionMove:
		return MoveStyle
	case types.ActionTrash:
		return TrashStyle
	case types.ActionMkdir:
		return MkdirStyle
	default:
		return InfoStyle
	}
}

// StatusStyle returns the style for an action status
func StatusStyle(status types.ActionStatus) lipgloss.Style {
	switch status {
	case types.StatusDone:
		return SuccessStyle
	case types.StatusFailed:
		return ErrorStyle
	case types.StatusPlanned:
		return InfoStyle
	default:
		return MutedStyle
	}
}

// Indicator returns the rendered one-character mark for a status
func Indicator(status types.ActionStatus) string {
	switch status {
	case types.StatusDone:
		return SuccessStyle.Render("✓")
	case types.StatusFailed:
		return ErrorStyle.Render("✗")
	case types.StatusPlanned:
		return InfoStyle.Render("○")
	default:
		return MutedStyle.Render("-")
	}
}

func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
