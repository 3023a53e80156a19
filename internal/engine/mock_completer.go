package engine

import (
	"context"
	"sync"

	"github.com/Veraticus/radstage/internal/llm"
)

// MockCompleter is a test implementation of llm.Completer. It replies from a
// per-call script, repeating the last reply once the script is exhausted.
type MockCompleter struct {
	// OnCall runs before each reply with the zero-based call index.
	OnCall  func(call int)
	replies []MockReply
	calls   []llm.Request
	mu      sync.Mutex
}

// MockReply is one scripted completion.
type MockReply struct {
	Err        error
	Completion llm.Completion
}

// NewMockCompleter creates a mock that replies in order.
func NewMockCompleter(replies ...MockReply) *MockCompleter {
	return &MockCompleter{replies: replies}
}

// Complete records req and returns the next scripted reply.
func (m *MockCompleter) Complete(_ context.Context, req llm.Request) (llm.Completion, error) {
	m.mu.Lock()
	idx := len(m.calls)
	m.calls = append(m.calls, req)
	onCall := m.OnCall
	var reply MockReply
	if len(m.replies) > 0 {
		reply = m.replies[min(idx, len(m.replies)-1)]
	}
	m.mu.Unlock()

	if onCall != nil {
		onCall(idx)
	}
	return reply.Completion, reply.Err
}

// Calls returns a copy of every request received.
func (m *MockCompleter) Calls() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Request(nil), m.calls...)
}

// Stop is a successful reply carrying payload.
func Stop(payload string) MockReply {
	return MockReply{Completion: llm.Completion{
		Text:         payload,
		FinishReason: "stop",
		Success:      true,
		Usage:        llm.Usage{PromptTokens: 100, CompletionTokens: 10},
	}}
}
