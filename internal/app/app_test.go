package app

import (
	"context"
	"io"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumina-learn/lumina/internal/roster"
	"github.com/lumina-learn/lumina/internal/screen"
	"github.com/lumina-learn/lumina/internal/screens/home"
	"github.com/lumina-learn/lumina/internal/views"
)

func newTestModel(t *testing.T, role views.Role) (AppModel, *roster.MemoryPersistence) {
	t.Helper()
	persist := roster.NewMemoryPersistence()
	store := roster.New(persist, nil, zap.NewNop())
	t.Cleanup(store.Close)
	require.NoError(t, store.Load(context.Background()))

	m := newAppModel(Options{
		Store:      store,
		Persist:    persist,
		Role:       role,
		SkipSplash: true,
	})
	return m, persist
}

func press(m AppModel, msg tea.KeyPressMsg) AppModel {
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func activeView(m AppModel) views.ID {
	return m.currentView()
}

func TestTabCyclesVisibleViews(t *testing.T) {
	m, _ := newTestModel(t, views.RoleParent)

	var seen []views.ID
	for range views.Visible(views.RoleParent) {
		m = press(m, tea.KeyPressMsg{Code: tea.KeyTab})
		seen = append(seen, activeView(m))
		assert.Equal(t, 2, m.router.Depth(), "views open one level above home")
	}

	var want []views.ID
	for _, v := range views.Visible(views.RoleParent) {
		want = append(want, v.ID)
	}
	assert.Equal(t, want, seen)

	m = press(m, tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, views.Dashboard, activeView(m), "wraps back to the dashboard")
}

func TestSwitchRolePersistsAndLeavesHiddenView(t *testing.T) {
	m, persist := newTestModel(t, views.RoleTeacher)

	// Teacher Log is teacher-only.
	for activeView(m) != views.TeacherLog {
		m = press(m, tea.KeyPressMsg{Code: tea.KeyTab})
	}

	m = press(m, tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	assert.Equal(t, views.RoleParent, m.env.Role)
	assert.Equal(t, 1, m.router.Depth())
	_, isHome := m.router.Active().(*home.HomeScreen)
	assert.True(t, isHome)

	role, err := views.LoadRole(context.Background(), persist)
	require.NoError(t, err)
	assert.Equal(t, views.RoleParent, role)
}

func TestSwitchRoleKeepsAllowedView(t *testing.T) {
	m, _ := newTestModel(t, views.RoleTeacher)
	m = press(m, tea.KeyPressMsg{Code: tea.KeyTab})
	require.Equal(t, views.Dashboard, activeView(m))

	m = press(m, tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	assert.Equal(t, views.RoleParent, m.env.Role)
	assert.Equal(t, views.Dashboard, activeView(m))
}

func TestEscPopsToHome(t *testing.T) {
	m, _ := newTestModel(t, views.RoleTeacher)
	m = press(m, tea.KeyPressMsg{Code: tea.KeyTab})
	require.Equal(t, 2, m.router.Depth())

	next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m = next.(AppModel)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(AppModel)
	assert.Equal(t, 1, m.router.Depth())
}

func TestStoreChangeReachesActiveScreen(t *testing.T) {
	m, _ := newTestModel(t, views.RoleTeacher)
	m = press(m, tea.KeyPressMsg{Code: tea.KeyTab})

	next, _ := m.Update(screen.StoreChangedMsg{Change: roster.Change{Kind: roster.ChangeInsight}})
	m = next.(AppModel)
	assert.Equal(t, views.Dashboard, activeView(m))
}

func TestViewRendersHeaderWithRole(t *testing.T) {
	m, _ := newTestModel(t, views.RoleStudent)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(AppModel)

	frame := m.render()
	assert.Contains(t, frame, "STUDENT")
	assert.Contains(t, frame, "Julian Vance")
}

func TestProgramStaysResponsiveWhenScreenMutatesStore(t *testing.T) {
	persist := roster.NewMemoryPersistence()
	store := roster.New(persist, nil, zap.NewNop())
	t.Cleanup(store.Close)
	require.NoError(t, store.Load(context.Background()))

	p, unsubscribe := newProgram(Options{
		Store:      store,
		Persist:    persist,
		Role:       views.RoleTeacher,
		SkipSplash: true,
	},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
		tea.WithWindowSize(100, 40),
	)
	defer unsubscribe()

	type result struct {
		model tea.Model
		err   error
	}
	done := make(chan result, 1)
	go func() {
		model, err := p.Run()
		done <- result{model, err}
	}()

	var msgs []tea.Msg
	// Home, Dashboard, Insights, Intelligence, Progress, Teacher Log.
	for range 5 {
		msgs = append(msgs, tea.KeyPressMsg{Code: tea.KeyTab})
	}
	msgs = append(msgs, tea.KeyPressMsg{Code: 'a', Text: "a"})
	for _, r := range "Maya" {
		msgs = append(msgs, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	msgs = append(msgs,
		tea.KeyPressMsg{Code: tea.KeyEnter},
		tea.KeyPressMsg{Code: 'k', Text: "k"},
		tea.KeyPressMsg{Code: tea.KeyEnter},
		tea.KeyPressMsg{Code: 'j', Text: "j"},
	)

	sent := make(chan struct{})
	go func() {
		for _, msg := range msgs {
			p.Send(msg)
		}
		p.Quit()
		close(sent)
	}()

	select {
	case <-sent:
	case <-time.After(5 * time.Second):
		p.Kill()
		t.Fatal("event loop stopped accepting messages after a store change")
	}

	var res result
	select {
	case res = <-done:
	case <-time.After(5 * time.Second):
		p.Kill()
		t.Fatal("program did not exit")
	}
	require.NoError(t, res.err)

	final, ok := res.model.(AppModel)
	require.True(t, ok)
	assert.Equal(t, views.TeacherLog, final.currentView())
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, roster.DefaultStudentID, store.ActiveID())
}
