package insight

import "github.com/lumina-learn/lumina/internal/llm"

// ObservationalInsightSchema is the structured output requested from the
// model for every insight.
var ObservationalInsightSchema = &llm.Schema{
	Name:        "observational-insight",
	Description: "A calm observation of a learner's rhythm with advice for parents and educators",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"observation": map[string]any{
				"type":        "string",
				"description": "A short, non-judgmental observation of the learner's current rhythm",
			},
			"rationale": map[string]any{
				"type":        "string",
				"description": "The signals in the data that support the observation",
			},
			"suggestions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Supportive advice for parents.",
			},
			"systemActions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Strategic actions for the teacher's response matrix.",
			},
			"isStudying": map[string]any{
				"type":        "boolean",
				"description": "True when the learner is actively studying, false on potential drift",
			},
			"engagementScore": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall engagement from 0 to 100",
			},
		},
		"required":             []any{"observation", "rationale", "suggestions", "systemActions", "isStudying", "engagementScore"},
		"additionalProperties": false,
	},
}
