package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestHeaderShowsRoleAndStudent(t *testing.T) {
	h := RenderHeader("Dashboard", HeaderInfo{Role: "parent", Student: "Julian Vance"}, 100)
	for _, want := range []string{"Lumina", "Dashboard", "Julian Vance", "PARENT"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestHeaderWithoutStudent(t *testing.T) {
	if !strings.Contains(RenderHeader("", HeaderInfo{}, 100), "no student") {
		t.Error("expected placeholder when no student is active")
	}
}

func TestFrameFillsHeight(t *testing.T) {
	header := RenderHeader("x", HeaderInfo{}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)
	if got := lipgloss.Height(frame); got != 30 {
		t.Errorf("frame height = %d, want 30", got)
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) || !IsTooSmall(MinWidth, MinHeight-1) {
		t.Error("below minimum should be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should fit")
	}
}
