package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/acrossmena/hs-classifier/internal/infrastructure/resilience"
)

// Client generates text through a local Ollama server. It implements
// ports.TextGenerator.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, executor *resilience.Executor) *Client {
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends one non-streaming completion request. Temporary failures
// are retried by the executor.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var response generateResponse
	err := c.executor.Execute(ctx, "ollama.generate", func(callCtx context.Context) error {
		err := c.postJSON(callCtx, "/api/generate", generateRequest{
			Model:  c.model,
			Prompt: prompt,
			Stream: false,
		}, &response, "generate")
		return classifyOllamaError("ollama.generate", err)
	}, resilience.ClassifyDomainError)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
