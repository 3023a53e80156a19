package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Veraticus/radstage/internal/common"
	"google.golang.org/genai"
)

// geminiCompleter implements Completer for Gemini models on Vertex AI, or on
// the Gemini API when only an API key is configured. The client is created on
// first use so that missing credentials surface at call time.
type geminiCompleter struct {
	client *genai.Client
	cfg    Config
	model  string
	mu     sync.Mutex
}

// newGeminiCompleter creates a new Gemini completer.
func newGeminiCompleter(cfg Config, model string) *geminiCompleter {
	return &geminiCompleter{cfg: cfg, model: model}
}

func (c *geminiCompleter) getClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	clientConfig := &genai.ClientConfig{}
	switch {
	case c.cfg.VertexProject != "":
		clientConfig.Backend = genai.BackendVertexAI
		clientConfig.Project = c.cfg.VertexProject
		clientConfig.Location = c.cfg.VertexLocation
		if clientConfig.Location == "" {
			clientConfig.Location = "us-central1"
		}
	case c.cfg.GeminiAPIKey != "":
		clientConfig.Backend = genai.BackendGeminiAPI
		clientConfig.APIKey = c.cfg.GeminiAPIKey
	default:
		return nil, fmt.Errorf("%w: set VERTEX_AI_PROJECT or GEMINI_API_KEY", common.ErrMissingConfig)
	}

	if c.cfg.GeminiBaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: c.cfg.GeminiBaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	c.client = client
	return client, nil
}

// Complete sends a generateContent request.
func (c *geminiCompleter) Complete(ctx context.Context, req Request) (Completion, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return Completion{}, err
	}

	contents, system := convertGeminiMessages(req.Messages)
	config := buildGeminiConfig(req, c.cfg, system)

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return Completion{}, fmt.Errorf("gemini api error: %w", err)
	}

	completion := Completion{}
	if resp.UsageMetadata != nil {
		completion.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	if len(resp.Candidates) == 0 {
		// The prompt itself was blocked; there is no candidate to read.
		completion.FinishReason = "NO_CANDIDATES"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			completion.FinishReason = string(resp.PromptFeedback.BlockReason)
		}
		return completion, nil
	}

	candidate := resp.Candidates[0]
	completion.FinishReason = string(candidate.FinishReason)
	completion.Success = candidate.FinishReason == genai.FinishReasonStop

	if candidate.Content != nil {
		var text strings.Builder
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		completion.Text = text.String()
	}

	return completion, nil
}

// convertGeminiMessages splits system messages into a system instruction and
// maps the rest to Gemini contents. Gemini uses "model" for the assistant role.
func convertGeminiMessages(messages []Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var systemParts []*genai.Part

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, genai.NewPartFromText(msg.Content))
		case RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			})
		}
	}

	if len(systemParts) == 0 {
		return contents, nil
	}
	return contents, &genai.Content{Parts: systemParts}
}

func buildGeminiConfig(req Request, cfg Config, system *genai.Content) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = cfg.maxTokens()
	}

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens:   int32(maxTokens),
		SystemInstruction: system,
	}

	for _, s := range cfg.SafetySettings {
		config.SafetySettings = append(config.SafetySettings, &genai.SafetySetting{
			Category:  genai.HarmCategory(s.Category),
			Threshold: genai.HarmBlockThreshold(s.Threshold),
		})
	}

	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = geminiSchema(req.Schema)
	}

	return config
}

func geminiSchema(s *ResponseSchema) *genai.Schema {
	schema := &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       make(map[string]*genai.Schema, len(s.Properties)),
		Required:         s.RequiredNames(),
		PropertyOrdering: s.RequiredNames(),
	}
	for _, p := range s.Properties {
		schema.Properties[p.Name] = &genai.Schema{
			Type:   genai.TypeString,
			Format: "enum",
			Enum:   append([]string(nil), p.Values...),
		}
	}
	return schema
}
