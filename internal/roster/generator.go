package roster

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumina-learn/lumina/internal/risk"
)

// Weekdays labels the seven engagement points in chronological order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DefaultSubjectEmoji is shown for students without a subject emoji.
const DefaultSubjectEmoji = "📘"

// The seed record created on first run.
const (
	DefaultStudentID        = "default-01"
	defaultStudentName      = "Julian Vance"
	defaultStudentAge       = "16"
	defaultStudentGrade     = "11th"
	defaultStudentFocusArea = "Mathematics & Logic"
	defaultStudentRemarks   = "Showing steady progress in rhythmic focus."
)

// Range is a half-open [Min, Min+Span) interval for synthetic values.
type Range struct {
	Min  float64
	Span float64
}

// GeneratorConfig holds the ranges used when synthesizing data.
type GeneratorConfig struct {
	Consistency Range
	Depth       Range
	Focus       Range

	SubmissionCount Range
	AttendanceDrop  Range
	MarksDrop       Range
	LateRatio       Range
	GradeVariance   Range
	MissingStreak   Range
}

// DefaultGeneratorConfig returns the ranges the dashboard ships with.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Consistency:     Range{Min: 60, Span: 40},
		Depth:           Range{Min: 40, Span: 50},
		Focus:           Range{Min: 50, Span: 50},
		SubmissionCount: Range{Min: 15, Span: 20},
		AttendanceDrop:  Range{Min: 0, Span: 15},
		MarksDrop:       Range{Min: -2, Span: 10},
		LateRatio:       Range{Min: 0, Span: 1},
		GradeVariance:   Range{Min: 0, Span: 5},
		MissingStreak:   Range{Min: 0, Span: 4},
	}
}

// Generator produces ids and synthetic seed data for new students.
type Generator struct {
	cfg GeneratorConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator. A nil rng seeds one from the clock.
func NewGenerator(cfg GeneratorConfig, rng *rand.Rand) *Generator {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1))
	}
	return &Generator{cfg: cfg, rng: rng}
}

// NewID returns a fresh, time-ordered student id.
func (g *Generator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "std-" + uuid.NewString()
	}
	return "std-" + id.String()
}

// Engagement returns a seven-point weekly rhythm.
func (g *Generator) Engagement() []EngagementPoint {
	g.mu.Lock()
	defer g.mu.Unlock()

	points := make([]EngagementPoint, len(Weekdays))
	for i, day := range Weekdays {
		points[i] = EngagementPoint{
			Time:        day,
			Consistency: g.sample(g.cfg.Consistency),
			Depth:       g.sample(g.cfg.Depth),
			Focus:       g.sample(g.cfg.Focus),
		}
	}
	return points
}

// Metrics returns a randomized set of academic metrics.
func (g *Generator) Metrics() AcademicMetrics {
	g.mu.Lock()
	defer g.mu.Unlock()

	return AcademicMetrics{
		AssignmentSubmissionCount: int(math.Floor(g.sample(g.cfg.SubmissionCount))),
		AttendanceDropPercentage:  round(g.sample(g.cfg.AttendanceDrop), 1),
		MarksDropBetweenTerms:     round(g.sample(g.cfg.MarksDrop), 1),
		LateSubmissionRatio:       round(g.sample(g.cfg.LateRatio), 2),
		AttendanceTrend:           risk.Trends[g.rng.IntN(len(risk.Trends))],
		GradeVariance:             round(g.sample(g.cfg.GradeVariance), 1),
		MissingAssignmentStreak:   int(math.Floor(g.sample(g.cfg.MissingStreak))),
	}
}

// NewStudent builds a record with a fresh id and synthetic data.
func (g *Generator) NewStudent(name string) Student {
	return Student{
		ID:              g.NewID(),
		Name:            name,
		Remarks:         "",
		EngagementData:  g.Engagement(),
		AcademicMetrics: g.Metrics(),
	}
}

// SeedStudent builds the record shown on first run.
func (g *Generator) SeedStudent() Student {
	return Student{
		ID:              DefaultStudentID,
		Name:            defaultStudentName,
		Age:             defaultStudentAge,
		Grade:           defaultStudentGrade,
		FocusArea:       defaultStudentFocusArea,
		SubjectEmoji:    DefaultSubjectEmoji,
		Remarks:         defaultStudentRemarks,
		EngagementData:  g.Engagement(),
		AcademicMetrics: g.Metrics(),
	}
}

func (g *Generator) sample(r Range) float64 {
	return r.Min + g.rng.Float64()*r.Span
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
