package roster

import (
	"github.com/lumina-learn/lumina/internal/risk"
)

// AcademicMetrics is re-exported so callers of the store rarely need to
// import the risk package directly.
type AcademicMetrics = risk.AcademicMetrics

// EngagementPoint is one day of the weekly engagement rhythm. All three
// scores are on a 0-100 scale.
type EngagementPoint struct {
	Time        string  `json:"time"`
	Consistency float64 `json:"consistency"`
	Depth       float64 `json:"depth"`
	Focus       float64 `json:"focus"`
}

// Insight is the AI-derived narrative attached to a student.
type Insight struct {
	Observation     string   `json:"observation"`
	Rationale       string   `json:"rationale"`
	Suggestions     []string `json:"suggestions"`
	SystemActions   []string `json:"systemActions,omitempty"`
	IsStudying      bool     `json:"isStudying"`
	EngagementScore int      `json:"engagementScore"`
}

func (in *Insight) clone() *Insight {
	if in == nil {
		return nil
	}
	out := *in
	out.Suggestions = append([]string(nil), in.Suggestions...)
	if in.SystemActions != nil {
		out.SystemActions = append([]string(nil), in.SystemActions...)
	}
	return &out
}

// Student is a single tracked learner. ID is assigned at creation and never
// changes.
type Student struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Age             string            `json:"age,omitempty"`
	Grade           string            `json:"grade,omitempty"`
	FocusArea       string            `json:"focusArea,omitempty"`
	SubjectEmoji    string            `json:"subjectEmoji,omitempty"`
	Remarks         string            `json:"remarks"`
	EngagementData  []EngagementPoint `json:"engagementData"`
	AcademicMetrics AcademicMetrics   `json:"academicMetrics"`
	Insight         *Insight          `json:"insight"`
}

// Risk runs the risk model over the student's current metrics.
func (s Student) Risk() risk.Prediction {
	return risk.PredictRisk(s.AcademicMetrics)
}

// clone returns a deep copy so callers never share slices with the store.
func (s Student) clone() Student {
	out := s
	out.EngagementData = append([]EngagementPoint(nil), s.EngagementData...)
	out.Insight = s.Insight.clone()
	return out
}

// Patch is a shallow, top-level update. A nil field is left untouched; a
// non-nil field replaces the whole value. AcademicMetrics is replaced as a
// unit, so callers editing a single metric must start from the current
// metrics and send the complete struct.
type Patch struct {
	Name            *string
	Age             *string
	Grade           *string
	FocusArea       *string
	SubjectEmoji    *string
	Remarks         *string
	EngagementData  []EngagementPoint
	AcademicMetrics *AcademicMetrics
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil && p.Grade == nil && p.FocusArea == nil &&
		p.SubjectEmoji == nil && p.Remarks == nil && p.EngagementData == nil &&
		p.AcademicMetrics == nil
}

// touchesContent reports whether the patch changes any input of the insight
// prompt.
func (p Patch) touchesContent() bool {
	return p.Remarks != nil || p.EngagementData != nil || p.AcademicMetrics != nil
}

func (p Patch) apply(s Student) Student {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Age != nil {
		s.Age = *p.Age
	}
	if p.Grade != nil {
		s.Grade = *p.Grade
	}
	if p.FocusArea != nil {
		s.FocusArea = *p.FocusArea
	}
	if p.SubjectEmoji != nil {
		s.SubjectEmoji = *p.SubjectEmoji
	}
	if p.Remarks != nil {
		s.Remarks = *p.Remarks
	}
	if p.EngagementData != nil {
		s.EngagementData = append([]EngagementPoint(nil), p.EngagementData...)
	}
	if p.AcademicMetrics != nil {
		s.AcademicMetrics = *p.AcademicMetrics
	}
	return s
}

// String returns a pointer to v, for building patches.
func String(v string) *string {
	return &v
}
