package report

import (
	"github.com/Veraticus/medplan/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

// Styles contains the styling definitions for plan reports.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style

	Box       lipgloss.Style
	ErrorBox  lipgloss.Style
	Amount    lipgloss.Style
	Priority  lipgloss.Style
	Narrative lipgloss.Style
}

// NewStyles creates a Styles instance built on the CLI palette.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SubtleColor).
		Padding(0, 1)

	s.ErrorBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.ErrorColor).
		Padding(0, 1)

	s.Amount = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.PrimaryColor)

	s.Priority = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.InfoColor)

	s.Narrative = lipgloss.NewStyle().
		Italic(true).
		PaddingLeft(2)

	return s
}

// StatusStyle picks the style for a plan status.
func (s *Styles) StatusStyle(status string) lipgloss.Style {
	switch status {
	case "success":
		return s.Success
	case "partial":
		return s.Warning
	default:
		return s.Error
	}
}
