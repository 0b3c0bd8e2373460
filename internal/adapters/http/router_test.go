package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acrossmena/hs-classifier/internal/config"
	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/observability/metrics"
)

type classifierFake struct {
	outcome domain.Outcome
	queries []string
}

func (f *classifierFake) Classify(_ context.Context, query string) domain.Outcome {
	f.queries = append(f.queries, query)
	if strings.TrimSpace(query) == "" {
		return domain.Failed(domain.WrapError(domain.ErrInvalidInput, "validate query", errors.New("query is empty")))
	}
	return f.outcome
}

type referenceFake struct{ rows int }

func (f referenceFake) Len() int { return f.rows }

func (f referenceFake) FirstWithPrefix(string) (domain.ReferenceRow, bool) {
	return domain.ReferenceRow{}, false
}

func newTestHandler(t *testing.T, cfg config.Config, classifier *classifierFake, rows int) http.Handler {
	t.Helper()
	handler, err := NewRouter(cfg, classifier, referenceFake{rows: rows}, metrics.NewHTTPServerMetrics(serviceName)).Handler()
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	return handler
}

func postClassify(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/classify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func gumOutcome() domain.Outcome {
	return domain.Succeeded("English", []domain.MatchResult{{
		ItemLabel: "Confectionery", HS6: "170410", MatchedBand: "17041000", Description: "Chewing gum.", Tier: domain.MatchTierExact,
	}}, domain.LabelSet{"Item Name", "HS6 Code", "8-Digit Code", "Simplified Description"})
}

func TestClassifyReturnsSuccessJSON(t *testing.T) {
	classifier := &classifierFake{outcome: gumOutcome()}
	res := postClassify(newTestHandler(t, config.Config{}, classifier, 1), `{"query":"chewing gum"}`)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var body struct {
		Status  string `json:"status"`
		Results []struct {
			HS6  string `json:"hs6"`
			Band string `json:"band"`
		} `json:"results"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "success" || len(body.Results) != 1 || body.Results[0].Band != "17041000" {
		t.Fatalf("unexpected body %s", res.Body.String())
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
	if len(classifier.queries) != 1 || classifier.queries[0] != "chewing gum" {
		t.Fatalf("unexpected queries %q", classifier.queries)
	}
}

func TestClassifyEmptyQueryReturns400(t *testing.T) {
	res := postClassify(newTestHandler(t, config.Config{}, &classifierFake{}, 1), `{"query":"   "}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestClassifyRejectsSchemaViolations(t *testing.T) {
	classifier := &classifierFake{}
	handler := newTestHandler(t, config.Config{}, classifier, 1)

	for _, body := range []string{`{"query":42}`, `{"text":"gum"}`, `not json`} {
		res := postClassify(handler, body)
		if res.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, res.Code)
		}
	}
	if len(classifier.queries) != 0 {
		t.Fatalf("invalid requests must not reach the classifier")
	}
}

func TestClassifyMapsFailureKinds(t *testing.T) {
	cases := []struct {
		kind error
		want int
	}{
		{kind: domain.ErrTemporary, want: http.StatusServiceUnavailable},
		{kind: domain.ErrReferenceUnavailable, want: http.StatusServiceUnavailable},
		{kind: domain.ErrUpstream, want: http.StatusBadGateway},
		{kind: errors.New("unexpected"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		classifier := &classifierFake{outcome: domain.Failed(domain.WrapError(tc.kind, "classify", errors.New("boom")))}
		res := postClassify(newTestHandler(t, config.Config{}, classifier, 1), `{"query":"gum"}`)
		if res.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.kind, tc.want, res.Code)
		}
	}
}

func TestClassifyNotFoundIs200(t *testing.T) {
	classifier := &classifierFake{outcome: domain.NotFound("French", domain.NotFoundNoMatch, "Introuvable")}
	res := postClassify(newTestHandler(t, config.Config{}, classifier, 1), `{"query":"nuage"}`)
	if res.Code != http.StatusOK || !strings.Contains(res.Body.String(), `"status":"not_found"`) {
		t.Fatalf("unexpected response %d %s", res.Code, res.Body.String())
	}
}

func TestExportReturnsWorkbook(t *testing.T) {
	handler := newTestHandler(t, config.Config{}, &classifierFake{outcome: gumOutcome()}, 1)

	req := httptest.NewRequest(http.MethodGet, "/v1/classify/export?q=chewing+gum", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.HasPrefix(res.Header().Get("Content-Type"), "application/vnd.openxmlformats") {
		t.Fatalf("unexpected content type %q", res.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(res.Body.Bytes(), []byte("PK")) {
		t.Fatalf("expected zip payload")
	}
}

func TestExportRequiresQuery(t *testing.T) {
	handler := newTestHandler(t, config.Config{}, &classifierFake{}, 1)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/classify/export", nil))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestReadyzReflectsReferenceTable(t *testing.T) {
	res := httptest.NewRecorder()
	newTestHandler(t, config.Config{}, &classifierFake{}, 0).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without reference rows, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	newTestHandler(t, config.Config{}, &classifierFake{}, 12).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if res.Code != http.StatusOK || !strings.Contains(res.Body.String(), `"reference_rows":12`) {
		t.Fatalf("unexpected readyz response %d %s", res.Code, res.Body.String())
	}
}

func TestServesOpenAPIDocumentAndMetrics(t *testing.T) {
	handler := newTestHandler(t, config.Config{}, &classifierFake{}, 1)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	if res.Code != http.StatusOK || !strings.Contains(res.Body.String(), "/v1/classify") {
		t.Fatalf("unexpected openapi response %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if res.Code != http.StatusOK || !strings.Contains(res.Body.String(), "hsc_http_requests_total") {
		t.Fatalf("unexpected metrics response %d", res.Code)
	}
}
