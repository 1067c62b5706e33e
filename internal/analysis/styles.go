package analysis

import (
	"strings"

	"github.com/Veraticus/dqscore/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all styling definitions for report formatting.
type Styles struct {
	// Base styles from CLI package
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style

	// Report-specific styles
	Box         lipgloss.Style
	Score       lipgloss.Style
	Critical    lipgloss.Style
	High        lipgloss.Style
	Medium      lipgloss.Style
	Low         lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	TableBorder lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:       cli.TitleStyle,
		Subtitle:    cli.SubtitleStyle,
		Success:     cli.SuccessStyle,
		Warning:     cli.WarningStyle,
		Error:       cli.ErrorStyle,
		Info:        cli.InfoStyle,
		Subtle:      cli.SubtleStyle,
		Normal:      lipgloss.NewStyle(),
		TableHeader: cli.TableHeaderStyle,
		TableCell:   cli.TableCellStyle,
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SubtleColor).
		Padding(0, 1)

	s.Score = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.PrimaryColor)

	s.Critical = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ErrorColor).
		Background(lipgloss.Color("#2D0000"))

	s.High = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.WarningColor)

	s.Medium = lipgloss.NewStyle().
		Foreground(cli.InfoColor)

	s.Low = lipgloss.NewStyle().
		Foreground(cli.SubtleColor)

	s.TableBorder = lipgloss.NewStyle().
		Foreground(cli.SubtleColor)

	return s
}

// ForSeverity returns the appropriate style for the given severity level.
func (s *Styles) ForSeverity(severity IssueSeverity) lipgloss.Style {
	switch severity {
	case SeverityCritical:
		return s.Critical
	case SeverityHigh:
		return s.High
	case SeverityMedium:
		return s.Medium
	case SeverityLow:
		return s.Low
	default:
		return s.Normal
	}
}

// ForScore returns the style for a score on the 0-100 scale.
func (s *Styles) ForScore(score float64) lipgloss.Style {
	switch {
	case score >= 90:
		return s.Success
	case score >= 70:
		return s.Warning
	default:
		return s.Error
	}
}

// RenderProgressBar renders a score in [0,100] as a bar of width cells.
// Scores outside the range are clamped for display only.
func (s *Styles) RenderProgressBar(score float64, width int) string {
	if width <= 0 {
		width = 30
	}

	filled := int(float64(width) * score / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	// Return raw characters without styling to ensure correct width
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
