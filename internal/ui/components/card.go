package components

import (
	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for dashboard sections.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 96 {
		w = 96
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card with an optional title.
func Card(title, content string, cw int) string {
	body := content
	if title != "" {
		body = theme.Label.Render(title) + "\n" + content
	}
	return theme.Card.
		Width(cw).
		Render(body)
}

// EmptyState renders a centered, dimmed message filling the area.
func EmptyState(message string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.TextDim).
		Italic(true).
		Render(message)
}

// Place centers content horizontally at the top of the area.
func Place(content string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}
