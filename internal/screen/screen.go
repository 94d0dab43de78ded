package screen

import (
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/lumina-learn/lumina/internal/roster"
	"github.com/lumina-learn/lumina/internal/ui/layout"
	"github.com/lumina-learn/lumina/internal/views"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ViewScreen is a screen backing one of the navigable dashboard views.
type ViewScreen interface {
	Screen
	ViewID() views.ID
}

// InputCapturer is implemented by screens that are currently reading text,
// so global shortcuts must not fire.
type InputCapturer interface {
	CapturingInput() bool
}

// Env is the state every screen reads from. It is only mutated on the
// Bubble Tea update loop.
type Env struct {
	Store   *roster.Store
	Persist roster.Persistence
	Logger  *zap.Logger
	Role    views.Role

	// InsightsEnabled is false when no insight provider is configured.
	InsightsEnabled bool
}

// StoreChangedMsg is delivered after every roster change.
type StoreChangedMsg struct {
	Change roster.Change
}

// RoleChangedMsg is delivered after the viewer role switched.
type RoleChangedMsg struct {
	Role views.Role
}
