package ui

import "github.com/charmbracelet/lipgloss"

var (
	Accent      = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#6b7280")
	Destructive = lipgloss.Color("#e53935")
	Warning     = lipgloss.Color("#FFC107")
)

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	Title      lipgloss.Style
	Header     lipgloss.Style
	Row        lipgloss.Style
	Selected   lipgloss.Style
	Tag        lipgloss.Style
	Content    lipgloss.Style
	Action     lipgloss.Style
	Disabled   lipgloss.Style
	Error      lipgloss.Style
	Status     lipgloss.Style
	Help       lipgloss.Style
	Modal      lipgloss.Style
	Label      lipgloss.Style
	ActivePage lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Header:     lipgloss.NewStyle().Bold(true).Foreground(Accent).MarginBottom(1),
		Row:        lipgloss.NewStyle().PaddingLeft(2),
		Selected:   lipgloss.NewStyle().PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Accent),
		Tag:        lipgloss.NewStyle().Foreground(Warning),
		Content:    lipgloss.NewStyle().Foreground(Muted),
		Action:     lipgloss.NewStyle().Foreground(Destructive),
		Disabled:   lipgloss.NewStyle().Foreground(Muted).Faint(true),
		Error:      lipgloss.NewStyle().Foreground(Destructive),
		Status:     lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Help:       lipgloss.NewStyle().Foreground(Muted),
		Modal:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Accent).Padding(1, 2),
		Label:      lipgloss.NewStyle().Bold(true),
		ActivePage: lipgloss.NewStyle().Bold(true).Foreground(Accent),
	}
}
