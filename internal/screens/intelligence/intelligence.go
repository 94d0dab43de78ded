// Package intelligence shows the full AI insight for the active student.
package intelligence

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/screen"
	"github.com/lumina-learn/lumina/internal/ui/components"
	"github.com/lumina-learn/lumina/internal/ui/layout"
	"github.com/lumina-learn/lumina/internal/ui/theme"
	"github.com/lumina-learn/lumina/internal/views"
)

// IntelligenceScreen renders observation, rationale and engagement score.
type IntelligenceScreen struct {
	env *screen.Env
}

var _ screen.ViewScreen = (*IntelligenceScreen)(nil)
var _ screen.KeyHintProvider = (*IntelligenceScreen)(nil)

// New creates an IntelligenceScreen.
func New(env *screen.Env) *IntelligenceScreen {
	return &IntelligenceScreen{env: env}
}

func (s *IntelligenceScreen) Init() tea.Cmd { return nil }

func (s *IntelligenceScreen) Title() string { return "Intelligence" }

func (s *IntelligenceScreen) ViewID() views.ID { return views.Intelligence }

func (s *IntelligenceScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "f", Description: "Refresh insight"},
		{Key: "Tab", Description: "Next view"},
		{Key: "^R", Description: "Role"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *IntelligenceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "f" {
		if st, ok := s.env.Store.Active(); ok {
			s.env.Store.Refresh(st.ID)
		}
	}
	return s, nil
}

func (s *IntelligenceScreen) View(width, height int) string {
	st, ok := s.env.Store.Active()
	if !ok {
		return components.NoStudent(width, height)
	}
	cw := components.ContentWidth(width)
	text := lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 4)

	header := components.ProfileLine(st) + "\n" + components.StudyStatus(st.Insight)
	in := st.Insight
	if in == nil {
		msg := "The insight for this student is still being prepared."
		if !s.env.InsightsEnabled {
			msg = "AI insights are off. Set LUMINA_LLM_PROVIDER to enable them."
		}
		return components.Place(strings.Join([]string{
			components.Card("", header, cw),
			components.Card("INTELLIGENCE", theme.Hint.Render(msg), cw),
		}, "\n"), width)
	}

	score := components.NewGauge("", float64(in.EngagementScore)/100, cw-4)
	score.Fill = theme.Primary

	sections := []string{
		components.Card("", header, cw),
		components.Card("OBSERVATION", text.Render(in.Observation), cw),
		components.Card("RATIONALE", text.Render(in.Rationale), cw),
		components.Card("ENGAGEMENT SCORE", score.View(), cw),
	}
	return components.Place(strings.Join(sections, "\n"), width)
}
