package llm

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	err        error
	completion Completion
	calls      int
}

func (s *stubBackend) Complete(_ context.Context, _ Request) (Completion, error) {
	s.calls++
	return s.completion, s.err
}

func newStructured(backend Completer) *structuredCompleter {
	return &structuredCompleter{model: GPT4oMini, backend: backend, logger: slog.Default()}
}

func TestNewCompleter(t *testing.T) {
	for _, m := range Models() {
		t.Run(m.String(), func(t *testing.T) {
			completer, err := NewCompleter(DefaultConfig(), m, nil)
			require.NoError(t, err)
			assert.NotNil(t, completer)
		})
	}

	_, err := NewCompleter(DefaultConfig(), GenerativeModel("unknown"), nil)
	assert.Error(t, err)
}

func TestStructuredCompleter_RejectsInvalidRequest(t *testing.T) {
	backend := &stubBackend{}
	completer := newStructured(backend)

	_, err := completer.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = completer.Complete(context.Background(), Request{
		Messages: []Message{{Role: "tool", Content: "x"}},
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = completer.Complete(context.Background(), Request{
		Messages:    []Message{UserMessage("x")},
		Temperature: -1,
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	assert.Zero(t, backend.calls)
}

func TestStructuredCompleter_WrapsBackendErrors(t *testing.T) {
	cause := errors.New("connection reset")
	completer := newStructured(&stubBackend{err: cause})

	_, err := completer.Complete(context.Background(), Request{Messages: []Message{UserMessage("x")}})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBackendCall)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gpt-4o-mini")
}

func TestStructuredCompleter_MissingCredentialsIsBackendError(t *testing.T) {
	completer, err := NewCompleter(Config{}, GPT4o, nil)
	require.NoError(t, err)

	_, err = completer.Complete(context.Background(), Request{Messages: []Message{UserMessage("x")}})
	assert.ErrorIs(t, err, common.ErrBackendCall)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestStructuredCompleter_SchemaCheck(t *testing.T) {
	tests := []struct {
		name       string
		completion Completion
		wantErr    bool
	}{
		{
			name:       "valid payload",
			completion: Completion{Text: `{"t":"T2a","n":"N1","m":"M0"}`, FinishReason: "stop", Success: true},
		},
		{
			name:       "invalid payload on success",
			completion: Completion{Text: `{"t":"T9","n":"N1","m":"M0"}`, FinishReason: "stop", Success: true},
			wantErr:    true,
		},
		{
			name:       "non-terminal payload is not checked",
			completion: Completion{Text: `{"t":`, FinishReason: "length"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := newStructured(&stubBackend{completion: tt.completion})

			got, err := completer.Complete(context.Background(), Request{
				Messages: []Message{UserMessage("x")},
				Schema:   LabelSchema(),
			})
			assert.Equal(t, tt.completion, got)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrSchemaDecode)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRequestInputChars(t *testing.T) {
	req := Request{Messages: []Message{UserMessage("abc"), UserMessage("肺がん")}}
	assert.Equal(t, 6, req.InputChars())
}
