// Package insights tabulates the active student's weekly engagement.
package insights

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lumina-learn/lumina/internal/roster"
	"github.com/lumina-learn/lumina/internal/screen"
	"github.com/lumina-learn/lumina/internal/ui/components"
	"github.com/lumina-learn/lumina/internal/ui/layout"
	"github.com/lumina-learn/lumina/internal/ui/theme"
	"github.com/lumina-learn/lumina/internal/views"
)

// InsightsScreen shows engagement per day with weekly averages.
type InsightsScreen struct {
	env   *screen.Env
	table table.Model
	// averages across the week, in column order
	averages [3]float64
	days     int
}

var _ screen.ViewScreen = (*InsightsScreen)(nil)
var _ screen.KeyHintProvider = (*InsightsScreen)(nil)

// New creates an InsightsScreen.
func New(env *screen.Env) *InsightsScreen {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.TextDim).BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(theme.Primary)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Day", Width: 6},
			{Title: "Consistency", Width: 12},
			{Title: "Depth", Width: 8},
			{Title: "Focus", Width: 8},
			{Title: "Average", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(9),
		table.WithStyles(styles),
	)
	s := &InsightsScreen{env: env, table: t}
	s.refresh()
	return s
}

func (s *InsightsScreen) Init() tea.Cmd { return nil }

func (s *InsightsScreen) Title() string { return "Insights" }

func (s *InsightsScreen) ViewID() views.ID { return views.Insights }

func (s *InsightsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Day"},
		{Key: "Tab", Description: "Next view"},
		{Key: "^R", Description: "Role"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *InsightsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(screen.StoreChangedMsg); ok {
		s.refresh()
		return s, nil
	}
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

func (s *InsightsScreen) refresh() {
	st, ok := s.env.Store.Active()
	if !ok {
		s.table.SetRows(nil)
		s.days = 0
		return
	}
	rows, avg := engagementRows(st.EngagementData)
	s.table.SetRows(rows)
	s.averages = avg
	s.days = len(st.EngagementData)
}

// engagementRows converts points into table rows and returns per-series
// averages.
func engagementRows(points []roster.EngagementPoint) ([]table.Row, [3]float64) {
	var sums [3]float64
	rows := make([]table.Row, 0, len(points))
	for _, p := range points {
		sums[0] += p.Consistency
		sums[1] += p.Depth
		sums[2] += p.Focus
		rows = append(rows, table.Row{
			p.Time,
			fmt.Sprintf("%.0f", p.Consistency),
			fmt.Sprintf("%.0f", p.Depth),
			fmt.Sprintf("%.0f", p.Focus),
			fmt.Sprintf("%.1f", (p.Consistency+p.Depth+p.Focus)/3),
		})
	}
	var avg [3]float64
	if n := float64(len(points)); n > 0 {
		for i := range sums {
			avg[i] = sums[i] / n
		}
	}
	return rows, avg
}

func (s *InsightsScreen) View(width, height int) string {
	st, ok := s.env.Store.Active()
	if !ok {
		return components.NoStudent(width, height)
	}

	cw := components.ContentWidth(width)
	series := []struct {
		label string
		fill  color.Color
	}{
		{"consistency", theme.Consistency},
		{"depth", theme.Depth},
		{"focus", theme.Focus},
	}
	gauges := make([]string, len(series))
	for i, sr := range series {
		g := components.NewGauge(sr.label, s.averages[i]/100, cw-4)
		g.LabelWidth = 12
		g.Fill = sr.fill
		gauges[i] = g.View()
	}
	summary := strings.Join(gauges, "\n")

	sections := []string{
		components.Card("", components.ProfileLine(st), cw),
		components.Card(fmt.Sprintf("ENGAGEMENT · %d DAYS", s.days), s.table.View(), cw),
		components.Card("WEEKLY AVERAGES", summary, cw),
	}
	return components.Place(strings.Join(sections, "\n"), width)
}
