package components

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/ui/theme"
)

// Gauge is a horizontal meter for a ratio in [0,1]. Ratios outside the range
// fill the bar fully or not at all but keep their true value in the label.
type Gauge struct {
	Label string
	Ratio float64
	Width int
	// LabelWidth pads the label so stacked gauges line up.
	LabelWidth int
	// Fill overrides the meter color; nil uses theme.Secondary.
	Fill color.Color
}

// NewGauge creates a gauge spanning width cells including label and value.
func NewGauge(label string, ratio float64, width int) Gauge {
	return Gauge{Label: label, Ratio: ratio, Width: width}
}

// View renders label, meter and percentage.
func (g Gauge) View() string {
	var label string
	if g.Label != "" {
		label = lipgloss.NewStyle().
			Foreground(theme.Text).
			Width(max(g.LabelWidth, lipgloss.Width(g.Label))).
			Render(g.Label) + " "
	}
	value := fmt.Sprintf(" %4.0f%%", g.Ratio*100)

	cells := max(4, g.Width-lipgloss.Width(label)-len(value))
	on := int(math.Round(math.Max(0, math.Min(1, g.Ratio)) * float64(cells)))

	fill := g.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	meter := lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("▰", on)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("▱", cells-on))

	return label + meter + theme.Hint.Render(value)
}
