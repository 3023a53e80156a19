package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestBuildGeminiConfig(t *testing.T) {
	cfg := DefaultConfig()
	req := Request{
		Messages:    []Message{UserMessage("report")},
		Schema:      LabelSchema(),
		Temperature: 0,
	}

	config := buildGeminiConfig(req, cfg, nil)

	require.NotNil(t, config.Temperature, "zero temperature must be explicit")
	assert.Equal(t, float32(0), *config.Temperature)
	assert.Equal(t, "application/json", config.ResponseMIMEType)

	require.NotNil(t, config.ResponseSchema)
	assert.Equal(t, genai.TypeObject, config.ResponseSchema.Type)
	assert.Equal(t, []string{"t", "n", "m"}, config.ResponseSchema.Required)
	assert.Contains(t, config.ResponseSchema.Properties["m"].Enum, "M1c")

	require.Len(t, config.SafetySettings, 4)
	categories := make([]genai.HarmCategory, 0, 4)
	for _, s := range config.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdOff, s.Threshold)
		categories = append(categories, s.Category)
	}
	assert.ElementsMatch(t, []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategoryDangerousContent,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryHarassment,
	}, categories)
}

func TestConvertGeminiMessages(t *testing.T) {
	contents, system := convertGeminiMessages([]Message{
		{Role: RoleSystem, Content: "be terse"},
		UserMessage("question"),
		{Role: RoleAssistant, Content: "answer"},
	})

	require.NotNil(t, system)
	assert.Equal(t, "be terse", system.Parts[0].Text)
	require.Len(t, contents, 2)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
}

func newGeminiTestServer(t *testing.T, body map[string]any) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-1.5-flash-002:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGeminiCompleter_Complete(t *testing.T) {
	server := newGeminiTestServer(t, map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": `{"t":"T3","n":"N1","m":"M1b"}`}},
			},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 300, "candidatesTokenCount": 12, "totalTokenCount": 312},
	})

	completer := newGeminiCompleter(Config{GeminiAPIKey: "test-key", GeminiBaseURL: server.URL}, "gemini-1.5-flash-002")

	completion, err := completer.Complete(context.Background(), Request{
		Messages: []Message{UserMessage("report")},
		Schema:   LabelSchema(),
	})
	require.NoError(t, err)

	assert.True(t, completion.Success)
	assert.Equal(t, "STOP", completion.FinishReason)
	assert.Equal(t, `{"t":"T3","n":"N1","m":"M1b"}`, completion.Text)
	assert.Equal(t, Usage{PromptTokens: 300, CompletionTokens: 12}, completion.Usage)
}

func TestGeminiCompleter_SafetyStop(t *testing.T) {
	server := newGeminiTestServer(t, map[string]any{
		"candidates": []map[string]any{{
			"finishReason": "SAFETY",
		}},
	})

	completer := newGeminiCompleter(Config{GeminiAPIKey: "test-key", GeminiBaseURL: server.URL}, "gemini-1.5-flash-002")

	completion, err := completer.Complete(context.Background(), Request{Messages: []Message{UserMessage("report")}})
	require.NoError(t, err)
	assert.False(t, completion.Success)
	assert.Equal(t, "SAFETY", completion.FinishReason)
	assert.Empty(t, completion.Text)
}

func TestGeminiCompleter_MissingCredentials(t *testing.T) {
	completer := newGeminiCompleter(Config{}, "gemini-1.5-pro-001")

	_, err := completer.Complete(context.Background(), Request{Messages: []Message{UserMessage("x")}})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
