package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrConfig               = errors.New("configuration error")
	ErrReferenceUnavailable = errors.New("reference table unavailable")
	ErrUpstream             = errors.New("upstream failure")
	ErrTemporary            = errors.New("temporary failure")
	ErrNoProposals          = errors.New("no proposals received")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
