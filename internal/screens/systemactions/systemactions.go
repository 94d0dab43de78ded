// Package systemactions shows the educator response matrix.
package systemactions

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/lumina-learn/lumina/internal/screen"
	"github.com/lumina-learn/lumina/internal/ui/components"
	"github.com/lumina-learn/lumina/internal/ui/layout"
	"github.com/lumina-learn/lumina/internal/ui/theme"
	"github.com/lumina-learn/lumina/internal/views"
)

// SystemActionsScreen lists the insight's school-based actions.
type SystemActionsScreen struct {
	env *screen.Env
}

var _ screen.ViewScreen = (*SystemActionsScreen)(nil)
var _ screen.KeyHintProvider = (*SystemActionsScreen)(nil)

// New creates a SystemActionsScreen.
func New(env *screen.Env) *SystemActionsScreen {
	return &SystemActionsScreen{env: env}
}

func (s *SystemActionsScreen) Init() tea.Cmd { return nil }

func (s *SystemActionsScreen) Title() string { return "System Actions" }

func (s *SystemActionsScreen) ViewID() views.ID { return views.SystemActions }

func (s *SystemActionsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "f", Description: "Refresh insight"},
		{Key: "Tab", Description: "Next view"},
		{Key: "^R", Description: "Role"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SystemActionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "f" {
		if st, ok := s.env.Store.Active(); ok {
			s.env.Store.Refresh(st.ID)
		}
	}
	return s, nil
}

func (s *SystemActionsScreen) View(width, height int) string {
	st, ok := s.env.Store.Active()
	if !ok {
		return components.NoStudent(width, height)
	}
	cw := components.ContentWidth(width)

	var actions []string
	rationale := theme.Hint.Render("Waiting for the latest observation…")
	if st.Insight != nil {
		actions = st.Insight.SystemActions
		rationale = theme.Body.Width(cw - 4).Render(st.Insight.Rationale)
	}

	pred := st.Risk()
	signal := theme.Good.Render("within normal rhythm")
	if pred.RiskLabel == 1 {
		signal = theme.Alert.Render("academic support recommended")
	}

	sections := []string{
		components.Card("", components.ProfileLine(st)+"\n"+signal, cw),
		components.Card("SIGNALS", rationale, cw),
		components.Card("RESPONSE MATRIX", components.BulletList(actions, "No actions suggested yet.", cw-4), cw),
	}
	return components.Place(strings.Join(sections, "\n"), width)
}
