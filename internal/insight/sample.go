package insight

import "encoding/json"

// SampleResponse is a canned model answer used by the mock backend when no
// LUMINA_LLM_MOCK_RESPONSE is configured.
var SampleResponse = json.RawMessage(`{
  "observation": "The weekly rhythm is steady, with focus dipping slightly toward the weekend.",
  "rationale": "Consistency stays above seventy on most days while depth varies more than focus.",
  "suggestions": [
    "Keep a short, predictable study window on weekend mornings.",
    "Ask about one idea they enjoyed this week rather than about grades."
  ],
  "systemActions": [
    "Check in on the two most recent late submissions.",
    "Offer an optional review session before the next assessment."
  ],
  "isStudying": true,
  "engagementScore": 78
}`)
