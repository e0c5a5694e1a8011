package wizard

import (
	"charm.land/lipgloss/v2"

	"github.com/planforge/planforge/internal/tui/theme"
)

// RenderConfirmationModal renders a confirmation modal with the given title
// and message. Used for the remove-assignment confirmation step.
func RenderConfirmationModal(title, message string) string {
	t := theme.Current()

	// Title with warning icon
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Warning)).
		MarginBottom(1)
	titleText := titleStyle.Render("⚠ " + title)

	// Message
	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		MarginBottom(1)
	messageText := messageStyle.Render(message)

	// Buttons
	buttonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted))
	buttons := buttonStyle.Render("Press Y to confirm, N or ESC to cancel")

	// Combine content
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleText,
		messageText,
		"",
		buttons,
	)

	// Modal styling
	modalStyle := lipgloss.NewStyle().
		Width(50).
		Padding(2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Warning))

	return modalStyle.Render(content)
}
