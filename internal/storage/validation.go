// Package storage keeps the per-experiment attempt ledger in SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/radstage/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidAttempt = errors.New("invalid attempt")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateAttempt(attempt *model.Attempt) error {
	if attempt == nil {
		return fmt.Errorf("%w: attempt", ErrNilParameter)
	}
	if strings.TrimSpace(attempt.RunID) == "" {
		return fmt.Errorf("%w: missing run ID", ErrInvalidAttempt)
	}
	if strings.TrimSpace(attempt.RecordID) == "" {
		return fmt.Errorf("%w: missing record ID", ErrInvalidAttempt)
	}
	if strings.TrimSpace(attempt.Model) == "" {
		return fmt.Errorf("%w: missing model", ErrInvalidAttempt)
	}
	if !attempt.Outcome.IsValid() {
		return fmt.Errorf("%w: unknown outcome %q", ErrInvalidAttempt, attempt.Outcome)
	}
	if attempt.InputChars < 0 || attempt.PromptTokens < 0 || attempt.CompletionTokens < 0 {
		return fmt.Errorf("%w: negative usage", ErrInvalidAttempt)
	}
	return nil
}
