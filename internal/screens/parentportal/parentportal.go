// Package parentportal shows home-based suggestions for parents.
package parentportal

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/lumina-learn/lumina/internal/screen"
	"github.com/lumina-learn/lumina/internal/ui/components"
	"github.com/lumina-learn/lumina/internal/ui/layout"
	"github.com/lumina-learn/lumina/internal/ui/theme"
	"github.com/lumina-learn/lumina/internal/views"
)

// ParentPortalScreen lists the insight's suggestions.
type ParentPortalScreen struct {
	env *screen.Env
}

var _ screen.ViewScreen = (*ParentPortalScreen)(nil)
var _ screen.KeyHintProvider = (*ParentPortalScreen)(nil)

// New creates a ParentPortalScreen.
func New(env *screen.Env) *ParentPortalScreen {
	return &ParentPortalScreen{env: env}
}

func (s *ParentPortalScreen) Init() tea.Cmd { return nil }

func (s *ParentPortalScreen) Title() string { return "Parent Portal" }

func (s *ParentPortalScreen) ViewID() views.ID { return views.ParentPortal }

func (s *ParentPortalScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next view"},
		{Key: "^R", Description: "Role"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ParentPortalScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *ParentPortalScreen) View(width, height int) string {
	st, ok := s.env.Store.Active()
	if !ok {
		return components.NoStudent(width, height)
	}
	cw := components.ContentWidth(width)

	var suggestions []string
	observation := theme.Hint.Render("Waiting for the latest observation…")
	if st.Insight != nil {
		suggestions = st.Insight.Suggestions
		observation = theme.Body.Width(cw - 4).Render(st.Insight.Observation)
	}

	sections := []string{
		components.Card("", components.ProfileLine(st)+"\n"+components.StudyStatus(st.Insight), cw),
		components.Card("WHAT WE NOTICED", observation, cw),
		components.Card("AT HOME THIS WEEK", components.BulletList(suggestions, "No suggestions yet.", cw-4), cw),
	}
	return components.Place(strings.Join(sections, "\n"), width)
}
