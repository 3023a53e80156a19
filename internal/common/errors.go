// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Completion errors.
	ErrBackendCall           = errors.New("backend call failed")
	ErrNonTerminalCompletion = errors.New("completion did not finish normally")
	ErrSchemaDecode          = errors.New("schema decode failed")

	// Repository errors.
	ErrRepositoryCorruption = errors.New("repository corrupted")
	ErrInvalidRecordID      = errors.New("invalid record id")

	// Prompt errors.
	ErrTemplate = errors.New("template substitution failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
