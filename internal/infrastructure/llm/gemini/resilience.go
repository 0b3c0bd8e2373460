package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
)

type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "gemini status error"
	}
	if e.Body == "" {
		return fmt.Sprintf("gemini generate status: %s", e.Status)
	}
	return fmt.Sprintf("gemini generate status: %s: %s", e.Status, e.Body)
}

func classifyGeminiError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.WrapError(domain.ErrConfig, operation, err)
		case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return domain.WrapError(domain.ErrTemporary, operation, err)
		default:
			return domain.WrapError(domain.ErrUpstream, operation, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return domain.WrapError(domain.ErrUpstream, operation, err)
}
