package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenerativeModel(t *testing.T) {
	tests := []struct {
		input        string
		wantBackend  Backend
		wantProvider string
		wantErr      bool
	}{
		{"gpt-4o-mini", BackendOpenAI, "gpt-4o-mini", false},
		{"gpt-4o", BackendOpenAI, "gpt-4o", false},
		{"vertex_ai/gemini-1.5-pro-001", BackendVertex, "gemini-1.5-pro-001", false},
		{"vertex_ai/gemini-1.5-flash-002", BackendVertex, "gemini-1.5-flash-002", false},
		{"anthropic/claude-3-5-sonnet-20241022", BackendAnthropic, "claude-3-5-sonnet-20241022", false},
		{"gemini-1.5-pro-001", 0, "", true},
		{"", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseGenerativeModel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBackend, m.Backend())
			assert.Equal(t, tt.wantProvider, m.ProviderName())
			assert.Equal(t, tt.input, m.String())
		})
	}
}

func TestModels(t *testing.T) {
	models := Models()
	require.NotEmpty(t, models)
	assert.Equal(t, GPT4oMini, models[0])
	assert.Contains(t, models, DefaultModel)

	for _, m := range models {
		assert.NotZero(t, m.Backend(), m)
		assert.NotEmpty(t, m.ProviderName(), m)
	}

	models[0] = "mutated"
	assert.Equal(t, GPT4oMini, Models()[0])
}

func TestBackendString(t *testing.T) {
	assert.Equal(t, "openai", BackendOpenAI.String())
	assert.Equal(t, "anthropic", BackendAnthropic.String())
	assert.Equal(t, "vertex_ai", BackendVertex.String())
	assert.Equal(t, "backend(9)", Backend(9).String())
}
