package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/infrastructure/resilience"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Client calls the Gemini generateContent REST endpoint. It implements
// ports.TextGenerator.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, apiKey, model string, executor *resilience.Executor) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      strings.TrimPrefix(model, "models/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Generate returns the text of the first candidate. A response without
// candidates yields an empty string; a blocked prompt is an upstream error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	const operation = "gemini.generate"

	var response generateResponse
	err := c.executor.Execute(ctx, operation, func(callCtx context.Context) error {
		response = generateResponse{}
		err := c.postJSON(callCtx, "/v1beta/models/"+c.model+":generateContent", generateRequest{
			Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		}, &response)
		return classifyGeminiError(operation, err)
	}, resilience.ClassifyDomainError)
	if err != nil {
		return "", err
	}

	if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
		return "", domain.WrapError(domain.ErrUpstream, operation, errors.New("prompt blocked: "+response.PromptFeedback.BlockReason))
	}
	if len(response.Candidates) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, p := range response.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
