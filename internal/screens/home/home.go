// Package home is the navigation hub: the views the current role may open.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/router"
	"github.com/lumina-learn/lumina/internal/screen"
	"github.com/lumina-learn/lumina/internal/screens"
	"github.com/lumina-learn/lumina/internal/ui/components"
	"github.com/lumina-learn/lumina/internal/ui/layout"
	"github.com/lumina-learn/lumina/internal/ui/theme"
	"github.com/lumina-learn/lumina/internal/views"
)

// SwitchRoleMsg asks the app to cycle the viewer role.
type SwitchRoleMsg struct{}

// HomeScreen is the root screen of the application.
type HomeScreen struct {
	env  *screen.Env
	menu components.Menu
	// role the menu was built for
	role views.Role
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	h.rebuild()
	return h
}

func (h *HomeScreen) rebuild() {
	h.role = h.env.Role
	visible := views.Visible(h.role)
	items := make([]components.MenuItem, 0, len(visible)+2)
	for _, v := range visible {
		id := v.ID
		items = append(items, components.MenuItem{
			Label: v.Title,
			Icon:  v.Icon,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: screens.ForView(h.env, id)}
				}
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "Switch role", Icon: "⇄", Action: func() tea.Cmd {
			return func() tea.Msg { return SwitchRoleMsg{} }
		}},
		components.MenuItem{Label: "Quit", Icon: "⏻", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if selected < len(items) {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Tab", Description: "Next view"},
		{Key: "^R", Description: "Role"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if h.role != h.env.Role {
		h.rebuild()
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	if h.role != h.env.Role {
		h.rebuild()
	}
	cw := components.ContentWidth(width)
	if cw > 60 {
		cw = 60
	}

	title := theme.Title.Render("L U M I N A") + "\n" +
		theme.Subtitle.Render("learning rhythm, gently observed")

	summary := h.summary()

	menu := components.Card(fmt.Sprintf("VIEWS · %s", strings.ToUpper(string(h.env.Role))), h.menu.View(), cw)

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", summary, "", menu)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) summary() string {
	n := h.env.Store.Len()
	noun := "students"
	if n == 1 {
		noun = "student"
	}
	count := theme.Hint.Render(fmt.Sprintf("%d %s", n, noun))
	st, ok := h.env.Store.Active()
	if !ok {
		return count + theme.Hint.Render(" · none selected")
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		components.ProfileLine(st),
		components.StudyStatus(st.Insight)+theme.Hint.Render("  ·  ")+count,
	)
}
