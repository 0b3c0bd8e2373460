package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		BreakerEnabled:      false,
	})
}

func TestGenerateConcatenatesCandidateParts(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-2.0-flash:generateContent" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("x-goog-api-key") != "secret" {
			t.Fatalf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Confectionery: "},{"text":"170410\n"}]}}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "secret", "models/gemini-2.0-flash", testExecutor())
	out, err := client.Generate(context.Background(), "Analyze the item")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "Confectionery: 170410" {
		t.Fatalf("unexpected output %q", out)
	}
	if len(captured.Contents) != 1 || captured.Contents[0].Parts[0].Text != "Analyze the item" {
		t.Fatalf("unexpected request %+v", captured)
	}
}

func TestGenerateWithoutCandidatesIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	out, err := New(server.URL, "k", "m", testExecutor()).Generate(context.Background(), "p")
	if err != nil || out != "" {
		t.Fatalf("expected empty output, got %q, %v", out, err)
	}
}

func TestGenerateBlockedPromptIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	_, err := New(server.URL, "k", "m", testExecutor()).Generate(context.Background(), "p")
	if !domain.IsKind(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestGenerateRetriesOverloadThenFailsTemporary(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"status":"UNAVAILABLE"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := New(server.URL, "k", "m", testExecutor()).Generate(context.Background(), "p")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", calls.Load())
	}
}

func TestGenerateRejectedKeyIsConfigError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "API key not valid", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := New(server.URL, "bad", "m", testExecutor()).Generate(context.Background(), "p")
	if !domain.IsKind(err, domain.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}
