// Package insight turns a student's engagement and metrics into an
// observational narrative using a language model.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/lumina-learn/lumina/internal/llm"
	"github.com/lumina-learn/lumina/internal/roster"
)

// Purpose tags LLM events produced by this package.
const Purpose = "observational-insight"

// Config tunes generation.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one Insight call, retries included. Zero means no
	// extra deadline.
	Timeout time.Duration
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.4,
		Timeout:     30 * time.Second,
	}
}

// Generator implements roster.InsightProvider on top of an llm.Provider.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

var _ roster.InsightProvider = (*Generator)(nil)

// New creates a Generator.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

type insightOutput struct {
	Observation     string   `json:"observation"`
	Rationale       string   `json:"rationale"`
	Suggestions     []string `json:"suggestions"`
	SystemActions   []string `json:"systemActions"`
	IsStudying      bool     `json:"isStudying"`
	EngagementScore float64  `json:"engagementScore"`
}

// Insight asks the model for an observation of the given data.
func (g *Generator) Insight(ctx context.Context, req roster.InsightRequest) (*roster.Insight, error) {
	ctx = llm.WithPurpose(ctx, Purpose)
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	prompt, err := buildUserMessage(req)
	if err != nil {
		return nil, err
	}

	llmReq := llm.UserRequest(systemPrompt, prompt, ObservationalInsightSchema, g.cfg.MaxTokens)
	llmReq.Temperature = g.cfg.Temperature

	resp, err := g.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("insight generation: %w", err)
	}

	var out insightOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse insight response: %w", err)
	}

	in := &roster.Insight{
		Observation:     out.Observation,
		Rationale:       out.Rationale,
		Suggestions:     out.Suggestions,
		SystemActions:   out.SystemActions,
		IsStudying:      out.IsStudying,
		EngagementScore: clampScore(out.EngagementScore),
	}
	if in.Suggestions == nil {
		in.Suggestions = []string{}
	}
	return in, nil
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}
