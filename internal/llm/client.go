package llm

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidRequest is returned for requests rejected before any network call.
var ErrInvalidRequest = errors.New("invalid completion request")

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of an ordered conversation.
type Message struct {
	Role    Role
	Content string
}

// UserMessage is shorthand for a user-authored message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Request describes a single completion call.
type Request struct {
	Schema      *ResponseSchema
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Validate checks the request shape.
func (r Request) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("%w: at least one message is required", ErrInvalidRequest)
	}
	for i, msg := range r.Messages {
		switch msg.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("%w: message %d has unsupported role %q", ErrInvalidRequest, i, msg.Role)
		}
	}
	if r.Temperature < 0 {
		return fmt.Errorf("%w: temperature must not be negative", ErrInvalidRequest)
	}
	return nil
}

// InputChars is the total character count across all message contents.
func (r Request) InputChars() int {
	total := 0
	for _, msg := range r.Messages {
		total += utf8.RuneCountInString(msg.Content)
	}
	return total
}

// Usage holds backend-reported token counts.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Completion is the outcome of a completion call.
type Completion struct {
	// Text is the unparsed response payload.
	Text string
	// FinishReason is the backend's own termination code, set even on failure.
	FinishReason string
	Usage        Usage
	// Success is true only when the backend reports a normal stop.
	Success bool
}

// Completer issues one completion request against a backend.
type Completer interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}
