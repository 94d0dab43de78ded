package cmd

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/lumina-learn/lumina/internal/roster"
	"github.com/lumina-learn/lumina/internal/ui/theme"
)

const rule = "\u2500"

// newTable returns a borderless table with a ruled header. Columns listed in
// numeric are right-aligned.
func newTable(headers []string, numeric ...int) *table.Table {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	return table.New().
		Headers(headers...).
		Border(lipgloss.NormalBorder()).
		BorderTop(false).BorderBottom(false).BorderLeft(false).BorderRight(false).
		BorderColumn(false).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if right[col] {
				s = s.Align(lipgloss.Right)
			}
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(theme.TextDim)
			}
			return s
		})
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

// printStudent writes the full record of st.
func printStudent(w io.Writer, st roster.Student, active bool) {
	marker := ""
	if active {
		marker = "  (active)"
	}
	fmt.Fprintf(w, "%s %s%s\n", emojiOrDefault(st.SubjectEmoji), st.Name, marker)
	fmt.Fprintf(w, "ID:        %s\n", st.ID)
	if st.Age != "" {
		fmt.Fprintf(w, "Age:       %s\n", st.Age)
	}
	if st.Grade != "" {
		fmt.Fprintf(w, "Grade:     %s\n", st.Grade)
	}
	if st.FocusArea != "" {
		fmt.Fprintf(w, "Focus:     %s\n", st.FocusArea)
	}
	remarks := st.Remarks
	if remarks == "" {
		remarks = "(none)"
	}
	fmt.Fprintf(w, "Remarks:   %s\n", remarks)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-5s  %11s  %6s  %6s\n", "Day", "Consistency", "Depth", "Focus")
	fmt.Fprintln(w, strings.Repeat(rule, 34))
	for _, p := range st.EngagementData {
		fmt.Fprintf(w, "%-5s  %11.0f  %6.0f  %6.0f\n", p.Time, p.Consistency, p.Depth, p.Focus)
	}

	fmt.Fprintln(w)
	printMetrics(w, st.AcademicMetrics)

	fmt.Fprintln(w)
	printPrediction(w, st)

	fmt.Fprintln(w)
	printInsight(w, st.Insight)
}

func printMetrics(w io.Writer, m roster.AcademicMetrics) {
	fmt.Fprintf(w, "Submissions:        %d\n", m.AssignmentSubmissionCount)
	fmt.Fprintf(w, "Attendance drop:    %.1f%%\n", m.AttendanceDropPercentage)
	fmt.Fprintf(w, "Marks drop:         %.1f\n", m.MarksDropBetweenTerms)
	fmt.Fprintf(w, "Late ratio:         %.2f\n", m.LateSubmissionRatio)
	fmt.Fprintf(w, "Attendance trend:   %s\n", m.AttendanceTrend)
	fmt.Fprintf(w, "Grade variance:     %.1f\n", m.GradeVariance)
	fmt.Fprintf(w, "Missing streak:     %d\n", m.MissingAssignmentStreak)
}

func printPrediction(w io.Writer, st roster.Student) {
	p := st.Risk()
	fmt.Fprintf(w, "Risk score:         %.2f\n", p.RiskScore)
	fmt.Fprintf(w, "Risk probability:   %.0f%%\n", p.RiskProbability*100)
	fmt.Fprintf(w, "Risk label:         %d\n", p.RiskLabel)
	fmt.Fprintf(w, "Help required:      %s\n", p.AcademicHelpRequired)
	fmt.Fprintf(w, "System status:      %s\n", st.AcademicMetrics.SystemStatus())
}

func printInsight(w io.Writer, in *roster.Insight) {
	if in == nil {
		fmt.Fprintln(w, "Insight:   (pending)")
		return
	}
	studying := "potential drift"
	if in.IsStudying {
		studying = "actively studying"
	}
	fmt.Fprintf(w, "Insight:   %s, engagement %d/100\n", studying, in.EngagementScore)
	fmt.Fprintf(w, "Observation:\n  %s\n", in.Observation)
	fmt.Fprintf(w, "Rationale:\n  %s\n", in.Rationale)
	printList(w, "Suggestions", in.Suggestions)
	printList(w, "System actions", in.SystemActions)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for i, s := range items {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s)
	}
}

func emojiOrDefault(e string) string {
	if e == "" {
		return roster.DefaultSubjectEmoji
	}
	return e
}
