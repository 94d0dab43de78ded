package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/roster"
	"github.com/lumina-learn/lumina/internal/ui/theme"
)

// NoStudent is the empty state shown by views that need an active student.
func NoStudent(width, height int) string {
	return EmptyState("No student selected.\n\nOpen the Teacher Log to add or pick one.", width, height)
}

// StudyStatus renders the insight's studying verdict, or a pending marker
// while no insight is attached.
func StudyStatus(in *roster.Insight) string {
	switch {
	case in == nil:
		return theme.Hint.Render("Analyzing rhythm…")
	case in.IsStudying:
		return theme.Good.Render("● Actively Studying")
	default:
		return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("◌ Potential Drift")
	}
}

// ProfileLine renders "emoji name · age · grade · focus" skipping blanks.
func ProfileLine(st roster.Student) string {
	line := theme.Title.Render(st.Name)
	if st.SubjectEmoji != "" {
		line = st.SubjectEmoji + "  " + line
	}
	var details []string
	if st.Age != "" {
		details = append(details, fmt.Sprintf("age %s", st.Age))
	}
	if st.Grade != "" {
		details = append(details, st.Grade+" grade")
	}
	if st.FocusArea != "" {
		details = append(details, st.FocusArea)
	}
	for _, d := range details {
		line += theme.Subtitle.Render("  ·  " + d)
	}
	return line
}

// BulletList renders items as a numbered list, or empty when there are none.
func BulletList(items []string, empty string, width int) string {
	if len(items) == 0 {
		return theme.Hint.Render(empty)
	}
	style := lipgloss.NewStyle().Foreground(theme.Text).Width(width)
	var s string
	for i, item := range items {
		if i > 0 {
			s += "\n"
		}
		s += style.Render(fmt.Sprintf("%d. %s", i+1, item))
	}
	return s
}
