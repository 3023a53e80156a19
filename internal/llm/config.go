package llm

// Harm categories and thresholds understood by Vertex AI.
const (
	HarmCategoryHateSpeech       = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategoryDangerousContent = "HARM_CATEGORY_DANGEROUS_CONTENT"
	HarmCategorySexuallyExplicit = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryHarassment       = "HARM_CATEGORY_HARASSMENT"

	HarmThresholdOff = "OFF"
)

// SafetySetting sets the blocking threshold for one harm category.
type SafetySetting struct {
	Category  string
	Threshold string
}

// DefaultSafetySettings disables every category filter. Radiology reports
// routinely trip generic safety heuristics.
func DefaultSafetySettings() []SafetySetting {
	return []SafetySetting{
		{Category: HarmCategoryHateSpeech, Threshold: HarmThresholdOff},
		{Category: HarmCategoryDangerousContent, Threshold: HarmThresholdOff},
		{Category: HarmCategorySexuallyExplicit, Threshold: HarmThresholdOff},
		{Category: HarmCategoryHarassment, Threshold: HarmThresholdOff},
	}
}

// Config holds provider credentials and request defaults. It is built once at
// process start and passed to NewCompleter.
type Config struct {
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	VertexProject    string
	VertexLocation   string
	GeminiAPIKey     string
	GeminiBaseURL    string
	SafetySettings   []SafetySetting
	MaxTokens        int
}

// DefaultConfig returns a Config with safety filters disabled.
func DefaultConfig() Config {
	return Config{
		VertexLocation: "us-central1",
		SafetySettings: DefaultSafetySettings(),
		MaxTokens:      1024,
	}
}

func (c Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return 1024
	}
	return c.MaxTokens
}
