// Package presenter renders classification outcomes for the HTTP, NATS,
// MCP and CLI surfaces.
package presenter

import (
	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

type Labels struct {
	Item        string `json:"item"`
	HS6         string `json:"hs6"`
	Band        string `json:"band"`
	Description string `json:"description"`
}

type Response struct {
	Status         string               `json:"status"`
	Language       string               `json:"language,omitempty"`
	Labels         *Labels              `json:"labels,omitempty"`
	Results        []domain.MatchResult `json:"results"`
	NotFoundReason string               `json:"not_found_reason,omitempty"`
	Message        string               `json:"message,omitempty"`
	DurationMS     float64              `json:"duration_ms"`
}

func FromOutcome(o domain.Outcome) Response {
	resp := Response{
		Status:     string(o.Kind),
		Language:   string(o.Language),
		Results:    o.Results,
		Message:    o.Message,
		DurationMS: float64(o.Duration.Microseconds()) / 1000.0,
	}
	if resp.Results == nil {
		resp.Results = []domain.MatchResult{}
	}
	switch o.Kind {
	case domain.OutcomeSuccess:
		resp.Labels = &Labels{
			Item:        o.Labels.Item(),
			HS6:         o.Labels.HS6(),
			Band:        o.Labels.Band(),
			Description: o.Labels.Description(),
		}
	case domain.OutcomeNotFound:
		resp.NotFoundReason = string(o.NotFoundReason)
	}
	return resp
}
