package httpadapter

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/acrossmena/hs-classifier/internal/adapters/presenter"
	"github.com/acrossmena/hs-classifier/internal/config"
	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
	"github.com/acrossmena/hs-classifier/internal/observability/metrics"
)

const (
	serviceName     = "api"
	maxRequestBytes = 16 << 10
)

//go:embed openapi.yaml
var openAPISpec []byte

type Router struct {
	cfg        config.Config
	classifier ports.Classifier
	reference  ports.ReferenceReader
	metrics    *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	classifier ports.Classifier,
	reference ports.ReferenceReader,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:        cfg,
		classifier: classifier,
		reference:  reference,
		metrics:    httpMetrics,
	}
}

func (rt *Router) Handler() (http.Handler, error) {
	validator, err := newOpenAPIValidator(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}

	api := http.NewServeMux()
	api.HandleFunc("POST /v1/classify", rt.classify)
	api.HandleFunc("GET /v1/classify/export", rt.exportXLSX)

	var apiHandler http.Handler = validator.Middleware(api)
	apiHandler = backpressureMiddleware(apiHandler, rt.cfg.APIMaxInFlight, 2*time.Second, rt.onReject)
	apiHandler = rateLimitMiddleware(apiHandler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, rt.onReject)

	mux := http.NewServeMux()
	mux.Handle("/v1/", apiHandler)
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /readyz", rt.readyz)
	mux.HandleFunc("GET /openapi.yaml", serveOpenAPI)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler)), nil
}

func (rt *Router) onReject(reason string) {
	if rt.metrics != nil {
		rt.metrics.RecordRejected(serviceName, reason)
	}
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) readyz(w http.ResponseWriter, _ *http.Request) {
	rows := 0
	if rt.reference != nil {
		rows = rt.reference.Len()
	}
	if rows == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "not_ready", "reference_rows": 0})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready", "reference_rows": rows})
}

type classifyRequest struct {
	Query string `json:"query"`
}

func (rt *Router) classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	outcome := rt.classifier.Classify(r.Context(), req.Query)
	writeJSON(w, statusForOutcome(outcome), presenter.FromOutcome(outcome))
}

func (rt *Router) exportXLSX(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	outcome := rt.classifier.Classify(r.Context(), query)
	if outcome.Kind == domain.OutcomeFailure {
		writeJSON(w, statusForOutcome(outcome), presenter.FromOutcome(outcome))
		return
	}

	data, err := presenter.XLSX(strings.TrimSpace(query), outcome)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", presenter.XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="classification.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openAPISpec)
}

func statusForOutcome(outcome domain.Outcome) int {
	if outcome.Kind == domain.OutcomeFailure {
		return mapErrorToHTTPStatus(outcome.Err)
	}
	return http.StatusOK
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": string(domain.OutcomeFailure), "error": message})
}
