// Package risk scores how likely a student is to need academic help.
//
// The model is a fixed weighted sum over five of the academic metrics. The
// weights, the label threshold and the probability divisor are calibration
// constants taken from the offline model and are never derived at runtime.
package risk

const (
	// Threshold is the score at or above which a student is labelled at risk.
	Threshold = 25.0

	// ProbabilityDivisor normalizes the score into a [0,1] probability.
	ProbabilityDivisor = 60.0
)

// Metric weights.
const (
	weightAttendanceDrop = 0.3
	weightMarksDrop      = 0.2
	weightLateRatio      = 0.2
	weightGradeVariance  = 0.1
	weightMissingStreak  = 0.2

	// lateRatioScale lifts the [0,1] ratio onto the percentage scale.
	lateRatioScale = 100.0
	// missingStreakScale is the per-assignment penalty of a missing streak.
	missingStreakScale = 5.0
)

// Help labels.
const (
	HelpRequired    = "Yes"
	HelpNotRequired = "No"
)

// Prediction is the output of PredictRisk.
type Prediction struct {
	RiskScore            float64 `json:"risk_score"`
	RiskProbability      float64 `json:"risk_probability"`
	RiskLabel            int     `json:"risk_label"`
	AcademicHelpRequired string  `json:"academic_help_required"`
}

// AtRisk reports whether the prediction crossed the threshold.
func (p Prediction) AtRisk() bool {
	return p.RiskLabel == 1
}

// PredictRisk scores the metrics. The raw score is never clamped; only the
// probability is bounded to [0,1].
func PredictRisk(m AcademicMetrics) Prediction {
	score := Score(m)

	label := 0
	help := HelpNotRequired
	if score >= Threshold {
		label = 1
		help = HelpRequired
	}

	return Prediction{
		RiskScore:            score,
		RiskProbability:      clamp(score/ProbabilityDivisor, 0, 1),
		RiskLabel:            label,
		AcademicHelpRequired: help,
	}
}

// Score returns the raw weighted risk score.
func Score(m AcademicMetrics) float64 {
	return weightAttendanceDrop*m.AttendanceDropPercentage +
		weightMarksDrop*m.MarksDropBetweenTerms +
		weightLateRatio*(m.LateSubmissionRatio*lateRatioScale) +
		weightGradeVariance*m.GradeVariance +
		weightMissingStreak*(float64(m.MissingAssignmentStreak)*missingStreakScale)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
