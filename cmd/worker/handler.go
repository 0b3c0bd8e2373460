package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/acrossmena/hs-classifier/internal/adapters/presenter"
	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
	"github.com/acrossmena/hs-classifier/internal/observability/metrics"
)

type classifyRequest struct {
	Query string `json:"query"`
}

type requestHandler struct {
	classifier ports.Classifier
	metrics    *metrics.WorkerMetrics
	logger     *slog.Logger
}

// Handle answers one NATS classify request with the presenter JSON body.
// Malformed payloads are answered as invalid input failures.
func (h *requestHandler) Handle(ctx context.Context, data []byte) []byte {
	h.metrics.StartRequest()
	started := time.Now()

	var outcome domain.Outcome
	var req classifyRequest
	if err := json.Unmarshal(data, &req); err != nil {
		outcome = domain.Failed(domain.WrapError(domain.ErrInvalidInput, "decode classify request", err))
	} else {
		outcome = h.classifier.Classify(ctx, req.Query)
	}
	h.metrics.FinishRequest(serviceName, string(outcome.Kind), time.Since(started))

	reply, err := json.Marshal(presenter.FromOutcome(outcome))
	if err != nil {
		h.logger.Error("classify_reply_encode_failed", "error", err)
		return []byte(fmt.Sprintf(`{"status":%q,"results":[],"message":"internal error"}`, domain.OutcomeFailure))
	}
	return reply
}

type eventRecorder interface {
	Record(ctx context.Context, event ports.ClassificationEvent) error
}

type auditSink struct {
	recorder eventRecorder
	metrics  *metrics.WorkerMetrics
}

func (s *auditSink) Handle(ctx context.Context, event ports.ClassificationEvent) error {
	err := s.recorder.Record(ctx, event)
	s.metrics.RecordEvent(serviceName, err)
	return err
}
