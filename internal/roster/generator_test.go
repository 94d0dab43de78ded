package roster

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/lumina-learn/lumina/internal/risk"
)

func TestGenerator_EngagementRanges(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig(), rand.New(rand.NewPCG(7, 7)))
	for range 100 {
		points := g.Engagement()
		if len(points) != 7 {
			t.Fatalf("got %d points, want 7", len(points))
		}
		for i, p := range points {
			if p.Time != Weekdays[i] {
				t.Errorf("point %d time = %q, want %q", i, p.Time, Weekdays[i])
			}
			if p.Consistency < 60 || p.Consistency >= 100 {
				t.Errorf("consistency %v out of range", p.Consistency)
			}
			if p.Depth < 40 || p.Depth >= 90 {
				t.Errorf("depth %v out of range", p.Depth)
			}
			if p.Focus < 50 || p.Focus >= 100 {
				t.Errorf("focus %v out of range", p.Focus)
			}
		}
	}
}

func TestGenerator_MetricsRanges(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig(), rand.New(rand.NewPCG(3, 9)))
	for range 200 {
		m := g.Metrics()
		if m.AssignmentSubmissionCount < 15 || m.AssignmentSubmissionCount > 34 {
			t.Errorf("submission count %d out of range", m.AssignmentSubmissionCount)
		}
		if m.AttendanceDropPercentage < 0 || m.AttendanceDropPercentage > 15 {
			t.Errorf("attendance drop %v out of range", m.AttendanceDropPercentage)
		}
		if m.MarksDropBetweenTerms < -2 || m.MarksDropBetweenTerms > 8 {
			t.Errorf("marks drop %v out of range", m.MarksDropBetweenTerms)
		}
		if m.LateSubmissionRatio < 0 || m.LateSubmissionRatio > 1 {
			t.Errorf("late ratio %v out of range", m.LateSubmissionRatio)
		}
		if m.GradeVariance < 0 || m.GradeVariance > 5 {
			t.Errorf("grade variance %v out of range", m.GradeVariance)
		}
		if m.MissingAssignmentStreak < 0 || m.MissingAssignmentStreak > 3 {
			t.Errorf("missing streak %d out of range", m.MissingAssignmentStreak)
		}
		if !m.AttendanceTrend.Valid() {
			t.Errorf("invalid trend %q", m.AttendanceTrend)
		}
	}
}

func TestGenerator_NewStudent(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig(), nil)
	s := g.NewStudent("Ada")
	if !strings.HasPrefix(s.ID, "std-") {
		t.Errorf("id %q missing std- prefix", s.ID)
	}
	if s.Remarks != "" || s.Insight != nil {
		t.Error("new student should start without remarks or insight")
	}
	if s.AcademicMetrics.AttendanceTrend == "" {
		t.Error("expected a trend")
	}
}

func TestGenerator_SeedStudent(t *testing.T) {
	s := NewGenerator(DefaultGeneratorConfig(), nil).SeedStudent()
	if s.ID != DefaultStudentID || s.Name != "Julian Vance" {
		t.Errorf("seed = %s/%s", s.ID, s.Name)
	}
	if s.FocusArea != "Mathematics & Logic" || s.Grade != "11th" || s.Age != "16" {
		t.Errorf("unexpected seed profile: %+v", s)
	}
	if s.Remarks != "Showing steady progress in rhythmic focus." {
		t.Errorf("remarks = %q", s.Remarks)
	}
	if got := s.Risk(); got != risk.PredictRisk(s.AcademicMetrics) {
		t.Error("Risk should delegate to the risk model")
	}
}
