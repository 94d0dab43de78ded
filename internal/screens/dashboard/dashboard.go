// Package dashboard shows the active student's weekly rhythm next to the
// latest AI observation.
package dashboard

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/screen"
	"github.com/lumina-learn/lumina/internal/ui/components"
	"github.com/lumina-learn/lumina/internal/ui/layout"
	"github.com/lumina-learn/lumina/internal/ui/theme"
	"github.com/lumina-learn/lumina/internal/views"
)

// DashboardScreen is the landing view for every role.
type DashboardScreen struct {
	env     *screen.Env
	spinner spinner.Model
}

var _ screen.ViewScreen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates a DashboardScreen.
func New(env *screen.Env) *DashboardScreen {
	return &DashboardScreen{
		env: env,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
	}
}

func (d *DashboardScreen) Init() tea.Cmd {
	return d.spinner.Tick
}

func (d *DashboardScreen) Title() string { return "Dashboard" }

func (d *DashboardScreen) ViewID() views.ID { return views.Dashboard }

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "f", Description: "Refresh insight"},
		{Key: "Tab", Description: "Next view"},
		{Key: "^R", Description: "Role"},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	case tea.KeyMsg:
		if msg.String() == "f" {
			if st, ok := d.env.Store.Active(); ok {
				d.env.Store.Refresh(st.ID)
			}
		}
	}
	return d, nil
}

func (d *DashboardScreen) View(width, height int) string {
	st, ok := d.env.Store.Active()
	if !ok {
		return components.NoStudent(width, height)
	}

	cw := components.ContentWidth(width)

	profile := components.ProfileLine(st) + "\n" + components.StudyStatus(st.Insight)
	if st.Insight != nil {
		profile += theme.Subtitle.Render("   engagement ") +
			theme.Body.Bold(true).Render(strconv.Itoa(st.Insight.EngagementScore))
	}

	var observation string
	switch {
	case st.Insight != nil:
		observation = lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 4).Render(st.Insight.Observation)
	case d.env.InsightsEnabled:
		observation = d.spinner.View() + theme.Hint.Render(" Listening to the rhythm…")
	default:
		observation = theme.Hint.Render("AI insights are off. Set LUMINA_LLM_PROVIDER to enable them.")
	}

	sections := []string{
		components.Card("", profile, cw),
		components.Card("WEEKLY RHYTHM", renderRhythm(st.EngagementData, cw-4), cw),
		components.Card("OBSERVATION", observation, cw),
	}
	if st.Remarks != "" {
		sections = append(sections, components.Card("EDUCATOR REMARKS", theme.Body.Width(cw-4).Render(st.Remarks), cw))
	}

	return components.Place(strings.Join(sections, "\n"), width)
}
