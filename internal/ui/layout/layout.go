// Package layout draws the frame around every screen: a status header, the
// screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/ui/theme"
)

// The dashboard refuses to draw below this size.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HeaderInfo is the status shown on the right of the header.
type HeaderInfo struct {
	Role    string
	Student string
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := theme.Title.Render("Lumina needs a little more room") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("at least %d × %d, currently %d × %d", MinWidth, MinHeight, width, height))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// spread places left, center and right across width, keeping center in the
// middle when there is room for it.
func spread(left, center, right string, width int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max(1, (width-cw)/2-lw)
	rightGap := max(1, width-lw-leftGap-cw-rw)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

// RenderHeader shows the brand, the screen title and who is being viewed
// from which role.
func RenderHeader(title string, info HeaderInfo, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("◈ Lumina")
	center := theme.Body.Render(title)

	student := info.Student
	if student == "" {
		student = "no student"
	}
	status := lipgloss.NewStyle().Foreground(theme.Secondary).Render(student)
	if info.Role != "" {
		status += theme.Hint.Render(" · ") +
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(strings.ToUpper(info.Role))
	}

	// border and padding take four columns
	return bar(width).Render(spread(brand, center, status, width-4))
}

// RenderFooter lists key hints separated by dots.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = theme.Body.Bold(true).Render(h.Key) + " " + theme.Hint.Render(h.Description)
	}
	return bar(width).Render(strings.Join(parts, theme.Hint.Render("  ·  ")))
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the space between them.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content),
		footer,
	)
}
