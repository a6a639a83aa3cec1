// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color (emerald).
	PrimaryColor = lipgloss.Color("#10b981")
	// AccentColor marks AI-powered features.
	AccentColor = lipgloss.Color("#8b5cf6") // Violet
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#34d399")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#fbbf24") // Amber
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#f87171") // Red
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#60a5fa") // Blue
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#737373") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SubtitleStyle is used for secondary headings.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// AiStyle marks values produced by the AI parser.
	AiStyle = lipgloss.NewStyle().
		Foreground(AccentColor).
		Bold(true)

	// ExpenseStyle formats outgoing amounts.
	ExpenseStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// IncomeStyle formats incoming amounts.
	IncomeStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// FormatSuccess formats a success message with a checkmark.
func FormatSuccess(msg string) string {
	return SuccessStyle.Render("✓ " + msg)
}

// FormatError formats an error message with a cross.
func FormatError(msg string) string {
	return ErrorStyle.Render("✗ " + msg)
}

// FormatWarning formats a warning message.
func FormatWarning(msg string) string {
	return WarningStyle.Render("⚠ " + msg)
}

// FormatInfo formats an informational message.
func FormatInfo(msg string) string {
	return InfoStyle.Render("ℹ " + msg)
}
