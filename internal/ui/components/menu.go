package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/ui/theme"
)

// MenuItem is one selectable row.
type MenuItem struct {
	Label string
	Icon  string
	// Hint is rendered dimmed after the label.
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list navigated with up/down and run with enter.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// move steps the cursor by dir over disabled items. It stays put when no
// enabled item lies in that direction.
func (m *Menu) move(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		if m.Selected < 0 || m.Selected >= len(m.Items) {
			break
		}
		if item := m.Items[m.Selected]; item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}
	return m, nil
}

// View renders one line per item.
func (m Menu) View() string {
	lines := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		text := item.Label
		if item.Icon != "" {
			text = item.Icon + "  " + text
		}

		var row string
		switch {
		case i == m.Selected:
			row = theme.Selected.Render("▸ " + text)
		case item.Disabled:
			row = lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + text)
		default:
			row = theme.Unselected.Render("  " + text)
		}
		if item.Hint != "" {
			row += theme.Hint.Render("  " + item.Hint)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}
