package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAITestServer(t *testing.T, finishReason, content string, capture *map[string]any) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}

		resp := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finishReason,
			}},
			"usage": map[string]any{"prompt_tokens": 42, "completion_tokens": 9, "total_tokens": 51},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAICompleter_Complete(t *testing.T) {
	var captured map[string]any
	server := newOpenAITestServer(t, "stop", `{"t":"T1b","n":"N0","m":"M0"}`, &captured)

	completer := newOpenAICompleter(Config{OpenAIAPIKey: "test-key", OpenAIBaseURL: server.URL + "/v1"}, "gpt-4o-mini")

	completion, err := completer.Complete(context.Background(), Request{
		Messages: []Message{UserMessage("report")},
		Schema:   LabelSchema(),
	})
	require.NoError(t, err)

	assert.True(t, completion.Success)
	assert.Equal(t, "stop", completion.FinishReason)
	assert.JSONEq(t, `{"t":"T1b","n":"N0","m":"M0"}`, completion.Text)
	assert.Equal(t, Usage{PromptTokens: 42, CompletionTokens: 9}, completion.Usage)

	assert.Equal(t, "gpt-4o-mini", captured["model"])
	format, ok := captured["response_format"].(map[string]any)
	require.True(t, ok, "response_format should be set")
	assert.Equal(t, "json_schema", format["type"])

	jsonSchema := format["json_schema"].(map[string]any)
	assert.Equal(t, "tnm_staging", jsonSchema["name"])
	assert.Equal(t, true, jsonSchema["strict"])
	schema := jsonSchema["schema"].(map[string]any)
	assert.Equal(t, false, schema["additionalProperties"])
	assert.ElementsMatch(t, []any{"t", "n", "m"}, schema["required"])

	temperature, ok := captured["temperature"].(float64)
	require.True(t, ok, "zero temperature must still be sent")
	assert.Less(t, temperature, 1e-30)
}

func TestOpenAICompleter_NonTerminal(t *testing.T) {
	tests := []struct {
		name         string
		finishReason string
	}{
		{"truncated", "length"},
		{"content filter", "content_filter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newOpenAITestServer(t, tt.finishReason, `{"t":"T1`, nil)
			completer := newOpenAICompleter(Config{OpenAIAPIKey: "test-key", OpenAIBaseURL: server.URL + "/v1"}, "gpt-4o")

			completion, err := completer.Complete(context.Background(), Request{Messages: []Message{UserMessage("x")}})
			require.NoError(t, err)
			assert.False(t, completion.Success)
			assert.Equal(t, tt.finishReason, completion.FinishReason)
		})
	}
}

func TestOpenAICompleter_Errors(t *testing.T) {
	t.Run("missing API key fails at call time", func(t *testing.T) {
		completer := newOpenAICompleter(Config{}, "gpt-4o")
		_, err := completer.Complete(context.Background(), Request{Messages: []Message{UserMessage("x")}})
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("API error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
		}))
		defer server.Close()

		completer := newOpenAICompleter(Config{OpenAIAPIKey: "test-key", OpenAIBaseURL: server.URL + "/v1"}, "gpt-4o")
		_, err := completer.Complete(context.Background(), Request{Messages: []Message{UserMessage("x")}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "openai api error")
	})
}

func TestOpenAITemperature(t *testing.T) {
	assert.Greater(t, openAITemperature(0), float32(0))
	assert.InDelta(t, 0.7, openAITemperature(0.7), 1e-6)
}
