// Package app hosts the root Bubble Tea model of the terminal dashboard.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/lumina-learn/lumina/internal/roster"
	"github.com/lumina-learn/lumina/internal/router"
	"github.com/lumina-learn/lumina/internal/screen"
	"github.com/lumina-learn/lumina/internal/screens"
	"github.com/lumina-learn/lumina/internal/screens/home"
	"github.com/lumina-learn/lumina/internal/screens/welcome"
	"github.com/lumina-learn/lumina/internal/ui/layout"
	"github.com/lumina-learn/lumina/internal/views"
)

// Options holds the collaborators the dashboard runs against.
type Options struct {
	Store           *roster.Store
	Persist         roster.Persistence
	Logger          *zap.Logger
	Role            views.Role
	InsightsEnabled bool

	// SkipSplash starts directly on the home screen.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting on the splash or home screen.
func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	role := opts.Role
	if _, ok := views.ParseRole(string(role)); !ok {
		role = views.DefaultRole
	}
	env := &screen.Env{
		Store:           opts.Store,
		Persist:         opts.Persist,
		Logger:          logger,
		Role:            role,
		InsightsEnabled: opts.InsightsEnabled,
	}

	var first screen.Screen
	if opts.SkipSplash {
		first = home.New(env)
	} else {
		first = welcome.New(func() screen.Screen { return home.New(env) })
	}
	return AppModel{
		env:    env,
		router: router.New(first),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case home.SwitchRoleMsg:
		return m, m.switchRole()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.globalKeysEnabled() {
			switch msg.String() {
			case "esc":
				if m.router.Depth() > 1 {
					return m, func() tea.Msg { return router.PopScreenMsg{} }
				}
				return m, nil
			case "tab":
				return m, m.nextView()
			case "ctrl+r":
				return m, m.switchRole()
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// globalKeysEnabled is false during the splash and while a screen reads text.
func (m AppModel) globalKeysEnabled() bool {
	switch active := m.router.Active().(type) {
	case *welcome.WelcomeScreen:
		return false
	case screen.InputCapturer:
		return !active.CapturingInput()
	}
	return true
}

func (m AppModel) currentView() views.ID {
	if vs, ok := m.router.Active().(screen.ViewScreen); ok {
		return vs.ViewID()
	}
	return ""
}

// nextView opens the view after the current one, keeping the stack at most
// one view deep above home.
func (m AppModel) nextView() tea.Cmd {
	next := views.Next(m.env.Role, m.currentView())
	m.router.PopToRoot()
	return m.router.Push(screens.ForView(m.env, next))
}

// switchRole cycles the viewer role, persists it and leaves any view the new
// role may not open.
func (m AppModel) switchRole() tea.Cmd {
	m.env.Role = views.NextRole(m.env.Role)
	if m.env.Persist != nil {
		if err := views.SaveRole(context.Background(), m.env.Persist, m.env.Role); err != nil {
			m.env.Logger.Warn("persist role failed", zap.Error(err))
		}
	}
	m.env.Logger.Info("role switched", zap.String("role", string(m.env.Role)))

	if current := m.currentView(); current != "" && views.Resolve(m.env.Role, current) != current {
		m.router.PopToRoot()
	}
	return m.router.Update(screen.RoleChangedMsg{Role: m.env.Role})
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	info := layout.HeaderInfo{Role: string(m.env.Role)}
	if st, ok := m.env.Store.Active(); ok {
		info.Student = st.Name
	}
	header := layout.RenderHeader(title, info, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits. Store changes
// from background enrichment are forwarded to the program so the active
// screen re-renders.
func Run(opts Options) error {
	p, unsubscribe := newProgram(opts)
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

// newProgram builds the program and subscribes it to store changes. Screens
// mutate the store from inside Update, where the subscriber runs on the event
// loop itself, so each change is delivered from its own goroutine.
func newProgram(opts Options, progOpts ...tea.ProgramOption) (*tea.Program, func()) {
	p := tea.NewProgram(newAppModel(opts), progOpts...)
	unsubscribe := opts.Store.Subscribe(func(c roster.Change) {
		go p.Send(screen.StoreChangedMsg{Change: c})
	})
	return p, unsubscribe
}
