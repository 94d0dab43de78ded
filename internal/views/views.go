// Package views defines viewer roles and which dashboard views each role may
// open.
package views

import (
	"context"
	"slices"

	"github.com/lumina-learn/lumina/internal/roster"
)

// Role is the perspective the dashboard is viewed from.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
)

// DefaultRole is used when no valid role is stored.
const DefaultRole = RoleTeacher

// Roles lists roles in switching order.
var Roles = []Role{RoleStudent, RoleTeacher, RoleParent}

// ParseRole returns the role named s.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, slices.Contains(Roles, r)
}

// NextRole cycles to the role after r.
func NextRole(r Role) Role {
	i := slices.Index(Roles, r)
	return Roles[(i+1)%len(Roles)]
}

// ID identifies a view.
type ID string

const (
	Dashboard     ID = "dashboard"
	Insights      ID = "insights"
	Intelligence  ID = "intelligence"
	Progress      ID = "progress"
	TeacherLog    ID = "teacher-log"
	ParentPortal  ID = "parent-portal"
	SystemActions ID = "system-actions"
)

// View is an entry in the navigation table.
type View struct {
	ID    ID
	Title string
	Icon  string
	Roles []Role
}

// Allows reports whether r may open the view.
func (v View) Allows(r Role) bool {
	return slices.Contains(v.Roles, r)
}

var all = []Role{RoleStudent, RoleTeacher, RoleParent}

// Table is the full navigation table in menu order.
var Table = []View{
	{ID: Dashboard, Title: "Dashboard", Icon: "◈", Roles: all},
	{ID: Insights, Title: "Insights", Icon: "◉", Roles: []Role{RoleStudent, RoleTeacher}},
	{ID: Intelligence, Title: "Intelligence", Icon: "✦", Roles: all},
	{ID: Progress, Title: "Progress", Icon: "▲", Roles: all},
	{ID: TeacherLog, Title: "Teacher Log", Icon: "✎", Roles: []Role{RoleTeacher}},
	{ID: ParentPortal, Title: "Parent Portal", Icon: "♥", Roles: []Role{RoleParent, RoleTeacher}},
	{ID: SystemActions, Title: "System Actions", Icon: "⚙", Roles: []Role{RoleTeacher}},
}

// Lookup returns the view with the given id.
func Lookup(id ID) (View, bool) {
	for _, v := range Table {
		if v.ID == id {
			return v, true
		}
	}
	return View{}, false
}

// Visible returns the views r may open, in menu order.
func Visible(r Role) []View {
	var out []View
	for _, v := range Table {
		if v.Allows(r) {
			out = append(out, v)
		}
	}
	return out
}

// Next returns the view after current among those visible to r, wrapping
// back to Dashboard. A current view hidden from r also yields Dashboard.
func Next(r Role, current ID) ID {
	visible := Visible(r)
	for i, v := range visible {
		if v.ID == current && i+1 < len(visible) {
			return visible[i+1].ID
		}
	}
	return Dashboard
}

// Resolve returns current if r may open it, otherwise Dashboard.
func Resolve(r Role, current ID) ID {
	if v, ok := Lookup(current); ok && v.Allows(r) {
		return current
	}
	return Dashboard
}

// LoadRole reads the persisted role. Missing or unknown values yield
// DefaultRole.
func LoadRole(ctx context.Context, p roster.Persistence) (Role, error) {
	raw, ok, err := p.Get(ctx, roster.KeyUserRole)
	if err != nil {
		return DefaultRole, err
	}
	if !ok {
		return DefaultRole, nil
	}
	if r, valid := ParseRole(raw); valid {
		return r, nil
	}
	return DefaultRole, nil
}

// SaveRole persists r under the user-role key.
func SaveRole(ctx context.Context, p roster.Persistence, r Role) error {
	return p.Set(ctx, roster.KeyUserRole, string(r))
}
