package tui

import "github.com/charmbracelet/lipgloss"

// Тема клиента доски.
type styles struct {
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	StatusBar lipgloss.Style

	Column         lipgloss.Style
	ColumnFocused  lipgloss.Style
	ColumnHeader   lipgloss.Style
	Card           lipgloss.Style
	CardSelected   lipgloss.Style
	ProjectRow     lipgloss.Style
	ProjectRowSel  lipgloss.Style
	InputLabel     lipgloss.Style
	ReadOnlyBadge  lipgloss.Style
	WriteableBadge lipgloss.Style
}

func newStyles() *styles {
	border := lipgloss.Color("#3b4261")
	borderFocus := lipgloss.Color("#7aa2f7")
	dim := lipgloss.Color("#565f89")

	return &styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7")),
		Subtle:    lipgloss.NewStyle().Foreground(dim),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")),
		StatusBar: lipgloss.NewStyle().Foreground(dim),

		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		ColumnFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderFocus).
			Padding(0, 1),
		ColumnHeader: lipgloss.NewStyle().Bold(true),

		Card:         lipgloss.NewStyle(),
		CardSelected: lipgloss.NewStyle().Background(lipgloss.Color("#33467c")),

		ProjectRow:    lipgloss.NewStyle(),
		ProjectRowSel: lipgloss.NewStyle().Background(lipgloss.Color("#33467c")),

		InputLabel:     lipgloss.NewStyle().Foreground(dim),
		ReadOnlyBadge:  lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")),
		WriteableBadge: lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
	}
}
