package insight

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-learn/lumina/internal/llm"
	"github.com/lumina-learn/lumina/internal/metrics"
	"github.com/lumina-learn/lumina/internal/roster"
)

func sampleRequest() roster.InsightRequest {
	return roster.InsightRequest{
		EngagementData: []roster.EngagementPoint{
			{Time: "Mon", Consistency: 80, Depth: 60, Focus: 70},
			{Time: "Tue", Consistency: 75, Depth: 55, Focus: 90},
		},
		AcademicMetrics: roster.AcademicMetrics{
			AttendanceDropPercentage: 4.5,
			MissingAssignmentStreak:  2,
		},
		Remarks: "Quiet in class this week.",
	}
}

type purposeProvider struct {
	*llm.MockProvider
	purpose  string
	deadline bool
}

func (p *purposeProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.purpose = llm.PurposeFrom(ctx)
	_, p.deadline = ctx.Deadline()
	return p.MockProvider.Generate(ctx, req)
}

func TestInsightParsesResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: SampleResponse})
	wrapped := &purposeProvider{MockProvider: mock}
	g := New(wrapped, DefaultConfig())

	in, err := g.Insight(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, 78, in.EngagementScore)
	assert.True(t, in.IsStudying)
	assert.Len(t, in.Suggestions, 2)
	assert.Len(t, in.SystemActions, 2)
	assert.NotEmpty(t, in.Observation)

	assert.Equal(t, Purpose, wrapped.purpose)
	assert.True(t, wrapped.deadline)
}

func TestInsightRequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: SampleResponse})
	g := New(mock, DefaultConfig())

	_, err := g.Insight(context.Background(), sampleRequest())
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	req := calls[0]
	assert.Equal(t, ObservationalInsightSchema, req.Schema)
	assert.Equal(t, 1024, req.MaxTokens)
	require.Len(t, req.Messages, 1)

	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, `"consistency": 80`)
	assert.Contains(t, prompt, `"missingAssignmentStreak": 2`)
	assert.Contains(t, prompt, `"Quiet in class this week."`)
	assert.Contains(t, prompt, "Potential Drift")
}

func TestInsightEmptyRemarks(t *testing.T) {
	req := sampleRequest()
	req.Remarks = "   "
	prompt, err := buildUserMessage(req)
	require.NoError(t, err)
	assert.Contains(t, prompt, `Remarks: "None"`)
}

func TestInsightClampsScore(t *testing.T) {
	cases := []struct {
		raw  float64
		want int
	}{
		{-5, 0},
		{0, 0},
		{42.4, 42},
		{42.5, 43},
		{100, 100},
		{180, 100},
	}
	for _, tc := range cases {
		body, err := json.Marshal(map[string]any{
			"observation": "o", "rationale": "r",
			"suggestions": []string{}, "systemActions": []string{},
			"isStudying": false, "engagementScore": tc.raw,
		})
		require.NoError(t, err)

		g := New(llm.NewMockProvider(llm.MockResponse{Content: body}), DefaultConfig())
		in, err := g.Insight(context.Background(), sampleRequest())
		require.NoError(t, err)
		assert.Equal(t, tc.want, in.EngagementScore, "raw=%v", tc.raw)
	}
}

func TestInsightNilSuggestionsBecomeEmpty(t *testing.T) {
	body := json.RawMessage(`{"observation":"o","rationale":"r","isStudying":true,"engagementScore":50}`)
	g := New(llm.NewMockProvider(llm.MockResponse{Content: body}), DefaultConfig())

	in, err := g.Insight(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.NotNil(t, in.Suggestions)
	assert.Empty(t, in.Suggestions)
}

func TestInsightProviderError(t *testing.T) {
	g := New(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}}), DefaultConfig())

	in, err := g.Insight(context.Background(), sampleRequest())
	assert.Nil(t, in)
	var rl *llm.ErrRateLimit
	assert.True(t, errors.As(err, &rl))
}

func TestInsightMalformedJSON(t *testing.T) {
	g := New(llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"observation":`)}), DefaultConfig())

	_, err := g.Insight(context.Background(), sampleRequest())
	assert.ErrorContains(t, err, "parse insight response")
}

func TestInsightNoTimeout(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: SampleResponse})
	wrapped := &purposeProvider{MockProvider: mock}
	g := New(wrapped, Config{MaxTokens: 100})

	_, err := g.Insight(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.False(t, wrapped.deadline)
}

func TestInstrumented(t *testing.T) {
	m := metrics.New()
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: SampleResponse},
		llm.MockResponse{Err: context.DeadlineExceeded},
	)
	p := WithMetrics(New(mock, Config{Timeout: time.Second}), m)

	_, err := p.Insight(context.Background(), sampleRequest())
	require.NoError(t, err)
	_, err = p.Insight(context.Background(), sampleRequest())
	require.Error(t, err)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	got := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "lumina_insight_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			key := ""
			for _, l := range metric.GetLabel() {
				key += l.GetName() + "=" + l.GetValue() + ","
			}
			got[key] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, got["kind=,outcome=success,"])
	assert.Equal(t, 1.0, got["kind=timeout,outcome=error,"])
}

func TestSampleResponseMatchesSchema(t *testing.T) {
	var out insightOutput
	require.NoError(t, json.Unmarshal(SampleResponse, &out))
	assert.NotEmpty(t, out.SystemActions)
}
