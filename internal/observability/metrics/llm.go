package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

// InstrumentedGenerator counts and times every call of the wrapped
// generator.
type InstrumentedGenerator struct {
	next     ports.TextGenerator
	provider string

	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewInstrumentedGenerator(reg prometheus.Registerer, provider string, next ports.TextGenerator) *InstrumentedGenerator {
	g := &InstrumentedGenerator{
		next:     next,
		provider: provider,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "LLM generate calls by provider and status.",
		}, []string{"provider", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "LLM generate call duration in seconds, retries included.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		}, []string{"provider"}),
	}
	reg.MustRegister(g.calls, g.duration)
	return g
}

func (g *InstrumentedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := g.next.Generate(ctx, prompt)
	g.duration.WithLabelValues(g.provider).Observe(time.Since(start).Seconds())
	g.calls.WithLabelValues(g.provider, callStatus(err)).Inc()
	return out, err
}

func callStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case domain.IsKind(err, domain.ErrTemporary), errors.Is(err, context.DeadlineExceeded):
		return "temporary"
	case domain.IsKind(err, domain.ErrConfig):
		return "config"
	default:
		return "upstream"
	}
}
