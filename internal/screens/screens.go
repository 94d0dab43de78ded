// Package screens maps dashboard views to their screens.
package screens

import (
	"github.com/lumina-learn/lumina/internal/screen"
	"github.com/lumina-learn/lumina/internal/screens/dashboard"
	"github.com/lumina-learn/lumina/internal/screens/insights"
	"github.com/lumina-learn/lumina/internal/screens/intelligence"
	"github.com/lumina-learn/lumina/internal/screens/parentportal"
	"github.com/lumina-learn/lumina/internal/screens/progress"
	"github.com/lumina-learn/lumina/internal/screens/systemactions"
	"github.com/lumina-learn/lumina/internal/screens/teacherlog"
	"github.com/lumina-learn/lumina/internal/views"
)

// ForView builds the screen for id. Unknown ids yield the dashboard.
func ForView(env *screen.Env, id views.ID) screen.ViewScreen {
	switch id {
	case views.Insights:
		return insights.New(env)
	case views.Intelligence:
		return intelligence.New(env)
	case views.Progress:
		return progress.New(env)
	case views.TeacherLog:
		return teacherlog.New(env)
	case views.ParentPortal:
		return parentportal.New(env)
	case views.SystemActions:
		return systemactions.New(env)
	default:
		return dashboard.New(env)
	}
}
