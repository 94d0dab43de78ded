// Package progress shows academic metrics and the dropout risk gauge.
package progress

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/risk"
	"github.com/lumina-learn/lumina/internal/screen"
	"github.com/lumina-learn/lumina/internal/ui/components"
	"github.com/lumina-learn/lumina/internal/ui/layout"
	"github.com/lumina-learn/lumina/internal/ui/theme"
	"github.com/lumina-learn/lumina/internal/views"
)

// ProgressScreen lists the academic metrics of the active student.
type ProgressScreen struct {
	env *screen.Env
}

var _ screen.ViewScreen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a ProgressScreen.
func New(env *screen.Env) *ProgressScreen {
	return &ProgressScreen{env: env}
}

func (s *ProgressScreen) Init() tea.Cmd { return nil }

func (s *ProgressScreen) Title() string { return "Progress" }

func (s *ProgressScreen) ViewID() views.ID { return views.Progress }

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next view"},
		{Key: "^R", Description: "Role"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

// metricRows returns label/value pairs in display order.
func metricRows(m risk.AcademicMetrics) [][2]string {
	return [][2]string{
		{"Assignments submitted", fmt.Sprintf("%d", m.AssignmentSubmissionCount)},
		{"Attendance drop", fmt.Sprintf("%.1f%%", m.AttendanceDropPercentage)},
		{"Marks drop between terms", fmt.Sprintf("%+.1f", m.MarksDropBetweenTerms)},
		{"Late submission ratio", fmt.Sprintf("%.0f%%", m.LateSubmissionRatio*100)},
		{"Attendance trend", string(m.AttendanceTrend)},
		{"Grade variance", fmt.Sprintf("%.1f", m.GradeVariance)},
		{"Missing assignment streak", fmt.Sprintf("%d", m.MissingAssignmentStreak)},
	}
}

func (s *ProgressScreen) View(width, height int) string {
	st, ok := s.env.Store.Active()
	if !ok {
		return components.NoStudent(width, height)
	}
	cw := components.ContentWidth(width)

	var metrics strings.Builder
	for i, row := range metricRows(st.AcademicMetrics) {
		if i > 0 {
			metrics.WriteString("\n")
		}
		metrics.WriteString(lipgloss.NewStyle().Width(30).Foreground(theme.TextDim).Render(row[0]))
		metrics.WriteString(theme.Body.Render(row[1]))
	}

	status := st.AcademicMetrics.SystemStatus()
	statusStyle := theme.Good
	if status == risk.StatusAlert {
		statusStyle = theme.Alert
	}

	pred := st.Risk()
	gauge := components.NewGauge("", pred.RiskProbability, cw-4)
	gauge.Fill = theme.Secondary
	if pred.RiskLabel == 1 {
		gauge.Fill = theme.Error
	}
	riskBody := gauge.View() + "\n" +
		theme.Subtitle.Render("score ") + theme.Body.Render(fmt.Sprintf("%.1f", pred.RiskScore)) +
		theme.Subtitle.Render("   academic help required ") + theme.Body.Bold(true).Render(pred.AcademicHelpRequired) +
		theme.Subtitle.Render("   system ") + statusStyle.Render(status)

	sections := []string{
		components.Card("", components.ProfileLine(st), cw),
		components.Card("ACADEMIC METRICS", metrics.String(), cw),
		components.Card("RISK", riskBody, cw),
	}
	return components.Place(strings.Join(sections, "\n"), width)
}
