package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Selected      lipgloss.Style
	StatusPending lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Italic        lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Amount        lipgloss.Style
	AmountIncome  lipgloss.Style
	AiBadge       lipgloss.Style
	FieldError    lipgloss.Style
	Box           lipgloss.Style
	BorderedBox   lipgloss.Style
	RoundedBox    lipgloss.Style
	Highlighted   lipgloss.Style
	Secondary     lipgloss.Color
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// Default is the default theme, matching the CAPE web palette.
var Default = Theme{
	// Colors
	Primary:    lipgloss.Color("#10b981"),
	Secondary:  lipgloss.Color("#8b5cf6"),
	Success:    lipgloss.Color("#10b981"),
	Warning:    lipgloss.Color("#f59e0b"),
	Error:      lipgloss.Color("#f43f5e"),
	Info:       lipgloss.Color("#3b82f6"),
	Background: lipgloss.Color("#1a1a1a"),
	Foreground: lipgloss.Color("#fafafa"),
	Border:     lipgloss.Color("#404040"),
	Muted:      lipgloss.Color("#737373"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		MarginBottom(1),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Italic: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#10b981")).
		Foreground(lipgloss.Color("#1a1a1a")).
		Bold(true),
	Highlighted: lipgloss.NewStyle().
		Background(lipgloss.Color("#404040")).
		Foreground(lipgloss.Color("#fafafa")),

	// Transaction styles
	Amount: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#f43f5e")),
	AmountIncome: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#10b981")),
	AiBadge: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8b5cf6")).
		Bold(true),
	FieldError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f43f5e")).
		Italic(true),

	// Component styles
	Box: lipgloss.NewStyle().
		Padding(1, 2),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(1, 2),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(1, 2),

	// Status styles
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f43f5e")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),
}

// Clay is a softer variant echoing the web client's claymorphism look.
var Clay = Theme{
	// Colors
	Primary:    lipgloss.Color("#34d399"),
	Secondary:  lipgloss.Color("#a78bfa"),
	Success:    lipgloss.Color("#34d399"),
	Warning:    lipgloss.Color("#fbbf24"),
	Error:      lipgloss.Color("#fb7185"),
	Info:       lipgloss.Color("#60a5fa"),
	Background: lipgloss.Color("#1e293b"),
	Foreground: lipgloss.Color("#f1f5f9"),
	Border:     lipgloss.Color("#475569"),
	Muted:      lipgloss.Color("#64748b"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#f1f5f9")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#94a3b8")).
		MarginBottom(1),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f1f5f9")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#f1f5f9")),
	Italic: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#f1f5f9")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#34d399")).
		Foreground(lipgloss.Color("#1e293b")).
		Bold(true),
	Highlighted: lipgloss.NewStyle().
		Background(lipgloss.Color("#475569")).
		Foreground(lipgloss.Color("#f1f5f9")),

	// Transaction styles
	Amount: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fb7185")),
	AmountIncome: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#34d399")),
	AiBadge: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a78bfa")).
		Bold(true),
	FieldError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fb7185")).
		Italic(true),

	// Component styles
	Box: lipgloss.NewStyle().
		Padding(1, 2),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#475569")).
		Padding(1, 2),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#475569")).
		Padding(1, 2),

	// Status styles
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#34d399")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fbbf24")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fb7185")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#60a5fa")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#64748b")).
		Italic(true),
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "clay":
		return Clay
	default:
		return Default
	}
}
