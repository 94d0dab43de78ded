package insight

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/lumina-learn/lumina/internal/roster"
)

const systemPrompt = `You are an educational observer helping parents and educators understand a learner's study rhythm. Your tone is observational, precise and supportive.`

var userTemplate = template.Must(template.New("insight").Parse(`Analyze these behavioral patterns and academic data for a learner.
Provide a calm, non-judgmental observation and concrete recommendations for both parents and educators.

Behavioral Patterns (7-day):
{{.Engagement}}

Academic Metrics:
{{.Metrics}}

Educator's Recent Remarks: "{{.Remarks}}"

Guidelines:
1. Do not use labels like "at risk", "failing" or "unstable".
2. Focus on drift, rhythm and supportive alignment.
3. "suggestions" are for parents: supportive and home-based.
4. "systemActions" are for educators: professional and school-based.
5. Decide whether the learner is "Actively Studying" (isStudying true) or showing "Potential Drift" (isStudying false).
6. engagementScore is a whole number from 0 to 100.
`))

type promptData struct {
	Engagement string
	Metrics    string
	Remarks    string
}

func buildUserMessage(req roster.InsightRequest) (string, error) {
	engagement, err := json.MarshalIndent(req.EngagementData, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode engagement: %w", err)
	}
	metrics, err := json.MarshalIndent(req.AcademicMetrics, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metrics: %w", err)
	}

	remarks := strings.TrimSpace(req.Remarks)
	if remarks == "" {
		remarks = "None"
	}

	var b strings.Builder
	err = userTemplate.Execute(&b, promptData{
		Engagement: string(engagement),
		Metrics:    string(metrics),
		Remarks:    remarks,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
