// Package teacherlog is the educator's roster: pick the active student, add
// new ones, edit remarks and remove records.
package teacherlog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/roster"
	"github.com/lumina-learn/lumina/internal/screen"
	"github.com/lumina-learn/lumina/internal/ui/components"
	"github.com/lumina-learn/lumina/internal/ui/layout"
	"github.com/lumina-learn/lumina/internal/ui/theme"
	"github.com/lumina-learn/lumina/internal/views"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeRemarks
	modeConfirmDelete
)

// TeacherLogScreen lists every student.
type TeacherLogScreen struct {
	env      *screen.Env
	selected int
	mode     mode
	input    components.TextInput
	// target is the student id being edited or deleted.
	target string
	status string
}

var _ screen.ViewScreen = (*TeacherLogScreen)(nil)
var _ screen.KeyHintProvider = (*TeacherLogScreen)(nil)
var _ screen.InputCapturer = (*TeacherLogScreen)(nil)

// New creates a TeacherLogScreen with the cursor on the active student.
func New(env *screen.Env) *TeacherLogScreen {
	s := &TeacherLogScreen{env: env}
	active := env.Store.ActiveID()
	for i, st := range env.Store.Students() {
		if st.ID == active {
			s.selected = i
			break
		}
	}
	return s
}

func (s *TeacherLogScreen) Init() tea.Cmd { return nil }

func (s *TeacherLogScreen) Title() string { return "Teacher Log" }

func (s *TeacherLogScreen) ViewID() views.ID { return views.TeacherLog }

// CapturingInput reports whether a text field or prompt owns the keyboard.
func (s *TeacherLogScreen) CapturingInput() bool {
	return s.mode != modeBrowse
}

func (s *TeacherLogScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeAdd, modeRemarks:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeConfirmDelete:
		return []layout.KeyHint{
			{Key: "y", Description: "Delete"},
			{Key: "n", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "a", Description: "Add"},
		{Key: "e", Description: "Remarks"},
		{Key: "d", Description: "Delete"},
		{Key: "Tab", Description: "Next view"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TeacherLogScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(screen.StoreChangedMsg); ok {
		s.clampSelection()
		return s, nil
	}

	switch s.mode {
	case modeAdd, modeRemarks:
		return s.updateInput(msg)
	case modeConfirmDelete:
		return s.updateConfirm(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	students := s.env.Store.Students()

	switch k.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(students)-1 {
			s.selected++
		}
	case "enter":
		if st, ok := s.current(students); ok {
			s.env.Store.Select(context.Background(), st.ID)
			s.status = fmt.Sprintf("%s is now active.", st.Name)
		}
	case "a":
		s.mode = modeAdd
		s.input = components.NewTextInput("New student name", "e.g. Maya Chen", "", 60)
		s.status = ""
		return s, s.input.Init()
	case "e":
		if st, ok := s.current(students); ok {
			s.mode = modeRemarks
			s.target = st.ID
			s.input = components.NewTextInput("Remarks for "+st.Name, "What did you notice this week?", st.Remarks, 280)
			s.status = ""
			return s, s.input.Init()
		}
	case "d":
		if st, ok := s.current(students); ok {
			s.mode = modeConfirmDelete
			s.target = st.ID
			s.status = ""
		}
	}
	return s, nil
}

func (s *TeacherLogScreen) updateInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			s.mode = modeBrowse
			return s, nil
		case "enter":
			return s, s.submit()
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TeacherLogScreen) submit() tea.Cmd {
	ctx := context.Background()
	switch s.mode {
	case modeAdd:
		st, err := s.env.Store.Add(ctx, s.input.Value())
		if errors.Is(err, roster.ErrEmptyName) {
			s.input.SetError("Please enter a name.")
			return nil
		}
		if err != nil {
			s.input.SetError(err.Error())
			return nil
		}
		s.selected = s.env.Store.Len() - 1
		s.status = fmt.Sprintf("Added %s.", st.Name)
	case modeRemarks:
		remarks := s.input.Value()
		if s.env.Store.Update(ctx, s.target, roster.Patch{Remarks: &remarks}) {
			s.status = "Remarks saved. Refreshing insight…"
		}
	}
	s.mode = modeBrowse
	return nil
}

func (s *TeacherLogScreen) updateConfirm(msg tea.Msg) (screen.Screen, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch k.String() {
	case "y":
		if st, found := s.env.Store.Student(s.target); found && s.env.Store.Delete(context.Background(), s.target) {
			s.status = fmt.Sprintf("Removed %s.", st.Name)
		}
		s.mode = modeBrowse
		s.clampSelection()
	case "n", "esc":
		s.mode = modeBrowse
	}
	return s, nil
}

func (s *TeacherLogScreen) current(students []roster.Student) (roster.Student, bool) {
	if s.selected < 0 || s.selected >= len(students) {
		return roster.Student{}, false
	}
	return students[s.selected], true
}

func (s *TeacherLogScreen) clampSelection() {
	n := s.env.Store.Len()
	if s.selected >= n {
		s.selected = n - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *TeacherLogScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	students := s.env.Store.Students()
	active := s.env.Store.ActiveID()

	var list strings.Builder
	if len(students) == 0 {
		list.WriteString(theme.Hint.Render("No students yet. Press a to add one."))
	}
	for i, st := range students {
		if i > 0 {
			list.WriteString("\n")
		}
		list.WriteString(s.renderRow(i, st, active, cw-4))
	}

	sections := []string{components.Card(fmt.Sprintf("ROSTER · %d", len(students)), list.String(), cw)}

	switch s.mode {
	case modeAdd, modeRemarks:
		sections = append(sections, components.Card("", s.input.View(), cw))
	case modeConfirmDelete:
		name := s.target
		if st, ok := s.env.Store.Student(s.target); ok {
			name = st.Name
		}
		sections = append(sections, components.Card("", theme.Alert.Render(fmt.Sprintf("Delete %s? (y/n)", name)), cw))
	default:
		if st, ok := s.current(students); ok {
			remarks := st.Remarks
			if remarks == "" {
				remarks = theme.Hint.Render("No remarks yet.")
			}
			sections = append(sections, components.Card("REMARKS", theme.Body.Width(cw-4).Render(remarks), cw))
		}
	}

	if s.status != "" {
		sections = append(sections, theme.Hint.Render(s.status))
	}
	return components.Place(strings.Join(sections, "\n"), width)
}

func (s *TeacherLogScreen) renderRow(i int, st roster.Student, active string, width int) string {
	prefix := "  "
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		prefix = "▸ "
		style = theme.Selected
	}

	marker := "  "
	if st.ID == active {
		marker = lipgloss.NewStyle().Foreground(theme.Secondary).Render("● ")
	}

	pred := st.Risk()
	riskTag := theme.Good.Render(fmt.Sprintf("risk %4.1f", pred.RiskScore))
	if pred.RiskLabel == 1 {
		riskTag = theme.Alert.Render(fmt.Sprintf("risk %4.1f", pred.RiskScore))
	}

	name := style.Render(prefix + st.SubjectEmoji + " " + st.Name)
	gap := width - lipgloss.Width(marker) - lipgloss.Width(name) - lipgloss.Width(riskTag)
	if gap < 1 {
		gap = 1
	}
	return marker + name + strings.Repeat(" ", gap) + riskTag
}
