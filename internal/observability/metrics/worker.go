package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics covers the NATS request-reply worker.
type WorkerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge
	eventsRecorded  *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "classify_requests_total",
			Help:      "Total classify requests handled by outcome.",
		},
		[]string{"service", "outcome"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "classify_request_duration_seconds",
			Help:      "Classify request handling duration in seconds by outcome.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 40, 90},
		},
		[]string{"service", "outcome"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "worker",
			Name:        "classify_requests_in_flight",
			Help:        "Number of in-flight classify requests.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	eventsRecorded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "events_recorded_total",
			Help:      "Classification events written to the audit log by status.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(requestTotal, requestDuration, requestInFlight, eventsRecorded)

	return &WorkerMetrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
		eventsRecorded:  eventsRecorded,
	}
}

func (m *WorkerMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartRequest() {
	m.requestInFlight.Inc()
}

func (m *WorkerMetrics) FinishRequest(service, outcome string, duration time.Duration) {
	m.requestInFlight.Dec()
	if outcome == "" {
		outcome = "unknown"
	}
	m.requestTotal.WithLabelValues(service, outcome).Inc()
	m.requestDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}

func (m *WorkerMetrics) RecordEvent(service string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.eventsRecorded.WithLabelValues(service, status).Inc()
}
