package dashboard

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/roster"
	"github.com/lumina-learn/lumina/internal/ui/theme"
)

const dayLabelWidth = 5

// renderRhythm draws one row per day with a bar for each of the three
// engagement series, scaled to 0-100.
func renderRhythm(points []roster.EngagementPoint, width int) string {
	if len(points) == 0 {
		return theme.Hint.Render("No engagement recorded yet.")
	}

	// day label + 3 × (bar + " 100 ")
	barWidth := (width - dayLabelWidth - 3*5) / 3
	if barWidth < 4 {
		barWidth = 4
	}

	var b strings.Builder
	b.WriteString(legend())
	for _, p := range points {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(dayLabelWidth).Foreground(theme.TextDim).Render(p.Time))
		b.WriteString(bar(p.Consistency, barWidth, theme.Consistency))
		b.WriteString(bar(p.Depth, barWidth, theme.Depth))
		b.WriteString(bar(p.Focus, barWidth, theme.Focus))
	}
	return b.String()
}

func bar(value float64, width int, c color.Color) string {
	filled := int(value / 100 * float64(width))
	filled = max(0, min(width, filled))
	return lipgloss.NewStyle().Foreground(c).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", width-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %3.0f ", value))
}

func legend() string {
	item := func(label string, c color.Color) string {
		return lipgloss.NewStyle().Foreground(c).Render("■ ") + theme.Subtitle.Render(label)
	}
	return strings.Repeat(" ", dayLabelWidth) +
		item("consistency", theme.Consistency) + "   " +
		item("depth", theme.Depth) + "   " +
		item("focus", theme.Focus)
}
