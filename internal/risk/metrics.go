package risk

// Trend is the direction attendance has been moving over recent weeks.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// Trends lists every valid Trend in display order.
var Trends = []Trend{TrendRising, TrendFalling, TrendStable}

// Valid reports whether t is one of the known trends.
func (t Trend) Valid() bool {
	switch t {
	case TrendRising, TrendFalling, TrendStable:
		return true
	}
	return false
}

// AcademicMetrics holds the academic signals the risk model is computed from.
// Values outside their expected ranges are accepted as-is.
type AcademicMetrics struct {
	AssignmentSubmissionCount int `json:"assignmentSubmissionCount"`
	// AttendanceDropPercentage is expected in [0,100].
	AttendanceDropPercentage float64 `json:"attendanceDropPercentage"`
	// MarksDropBetweenTerms is signed; negative means the marks improved.
	MarksDropBetweenTerms float64 `json:"marksDropBetweenTerms"`
	// LateSubmissionRatio is expected in [0,1].
	LateSubmissionRatio     float64 `json:"lateSubmissionRatio"`
	AttendanceTrend         Trend   `json:"attendanceTrend"`
	GradeVariance           float64 `json:"gradeVariance"`
	MissingAssignmentStreak int     `json:"missingAssignmentStreak"`
}

// System statuses reported by SystemStatus.
const (
	StatusNominal = "NOMINAL"
	StatusAlert   = "ALERT"
)

// SystemStatus is the coarse status shown next to the missing streak.
func (m AcademicMetrics) SystemStatus() string {
	if m.MissingAssignmentStreak > 1 {
		return StatusAlert
	}
	return StatusNominal
}
