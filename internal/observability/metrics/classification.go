package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

// ClassificationMetrics implements usecase.ClassificationObserver.
type ClassificationMetrics struct {
	service string

	outcomes *prometheus.CounterVec
	results  prometheus.Histogram
	tiers    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewClassificationMetrics(reg prometheus.Registerer, service string) *ClassificationMetrics {
	m := &ClassificationMetrics{
		service: service,
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classify",
			Name:      "outcomes_total",
			Help:      "Classification outcomes by kind and not-found reason.",
		}, []string{"service", "outcome", "reason"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "classify",
			Name:        "results",
			Help:        "Matched results per successful classification.",
			Buckets:     []float64{1, 2, 3, 4, 5, 8},
			ConstLabels: prometheus.Labels{"service": service},
		}),
		tiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classify",
			Name:      "match_tier_total",
			Help:      "Matched results by prefix tier (hs6 or hs4 fallback).",
		}, []string{"service", "tier"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classify",
			Name:      "duration_seconds",
			Help:      "End-to-end classification duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 90},
		}, []string{"service", "outcome"}),
	}
	reg.MustRegister(m.outcomes, m.results, m.tiers, m.duration)
	return m
}

func (m *ClassificationMetrics) ObserveClassification(outcome domain.Outcome) {
	kind := string(outcome.Kind)
	m.outcomes.WithLabelValues(m.service, kind, string(outcome.NotFoundReason)).Inc()
	m.duration.WithLabelValues(m.service, kind).Observe(outcome.Duration.Seconds())
	if outcome.Kind != domain.OutcomeSuccess {
		return
	}
	m.results.Observe(float64(len(outcome.Results)))
	for _, r := range outcome.Results {
		m.tiers.WithLabelValues(m.service, string(r.Tier)).Inc()
	}
}
