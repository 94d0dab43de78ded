package insight

import (
	"context"
	"time"

	"github.com/lumina-learn/lumina/internal/llm"
	"github.com/lumina-learn/lumina/internal/metrics"
	"github.com/lumina-learn/lumina/internal/roster"
)

// Instrumented records latency and outcome of every Insight call.
type Instrumented struct {
	inner   roster.InsightProvider
	metrics *metrics.Metrics
}

// WithMetrics wraps inner. A nil m records nothing.
func WithMetrics(inner roster.InsightProvider, m *metrics.Metrics) *Instrumented {
	return &Instrumented{inner: inner, metrics: m}
}

func (i *Instrumented) Insight(ctx context.Context, req roster.InsightRequest) (*roster.Insight, error) {
	start := time.Now()
	in, err := i.inner.Insight(ctx, req)
	if err != nil {
		i.metrics.ObserveInsight(metrics.OutcomeError, llm.ErrorKind(err), time.Since(start))
		return nil, err
	}
	i.metrics.ObserveInsight(metrics.OutcomeSuccess, "", time.Since(start))
	return in, nil
}
