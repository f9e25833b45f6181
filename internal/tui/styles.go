package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	successStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	doneStyle       = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	tagStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// importanceMarks are indexed by models.Importance*.
var importanceMarks = [...]string{"!!!", "!! ", "!  ", "   "}
