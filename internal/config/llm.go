package config

import (
	"fmt"
	"os"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/Veraticus/radstage/internal/llm"
	"github.com/spf13/viper"
)

// Provider credential environment variables.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvVertexProject   = "VERTEX_AI_PROJECT"
	EnvVertexLocation  = "VERTEX_AI_LOCATION"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
)

// LoadLLMConfig builds the completion adapter configuration. Missing
// credentials are not an error here; they fail when a backend is called.
func LoadLLMConfig(v *viper.Viper) (llm.Config, error) {
	cfg := llm.DefaultConfig()

	cfg.OpenAIAPIKey = firstNonEmpty(v.GetString("openai.api_key"), os.Getenv(EnvOpenAIAPIKey))
	cfg.OpenAIBaseURL = v.GetString("openai.base_url")
	cfg.AnthropicAPIKey = firstNonEmpty(v.GetString("anthropic.api_key"), os.Getenv(EnvAnthropicAPIKey))
	cfg.AnthropicBaseURL = v.GetString("anthropic.base_url")
	cfg.VertexProject = firstNonEmpty(v.GetString("vertex.project"), os.Getenv(EnvVertexProject))
	cfg.VertexLocation = firstNonEmpty(v.GetString("vertex.location"), os.Getenv(EnvVertexLocation), cfg.VertexLocation)
	cfg.GeminiAPIKey = firstNonEmpty(v.GetString("gemini.api_key"), os.Getenv(EnvGeminiAPIKey))
	cfg.GeminiBaseURL = v.GetString("gemini.base_url")

	if v.IsSet("llm.max_tokens") {
		maxTokens := v.GetInt("llm.max_tokens")
		if maxTokens <= 0 {
			return llm.Config{}, fmt.Errorf("%w: llm.max_tokens must be positive", common.ErrInvalidConfig)
		}
		cfg.MaxTokens = maxTokens
	}

	if threshold := v.GetString("vertex.safety_threshold"); threshold != "" {
		for i := range cfg.SafetySettings {
			cfg.SafetySettings[i].Threshold = threshold
		}
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
